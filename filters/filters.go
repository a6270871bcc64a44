// Package filters holds the dashboard filter state: one explicit struct with
// a query-string codec (for shareable links), a JSON codec (for per-project
// persistence in Redis) and a defined precedence rule when both are present.
package filters

import (
	"encoding/json"
	"net/url"

	"github.com/juspay/genius-dashboard-go/utils"
)

// State is the full filter set.  The zero value is NOT the default state -
// use Default(), which hides unknown users.
type State struct {
	ShowOnlyMerchant     bool     `json:"showOnlyMerchant"`
	ShowOnlyTeam         bool     `json:"showOnlyTeam"`
	ShowOnlyJuspayOthers bool     `json:"showOnlyJuspayOthers"`
	SelectedTag          string   `json:"selectedTag"`
	FilterCorrect        bool     `json:"filterCorrect"`
	FilterIncorrect      bool     `json:"filterIncorrect"`
	HideUnknownUser      bool     `json:"hideUnknownUser"`
	TeamEmails           []string `json:"teamEmails"`
}

func Default() State {
	return State{
		SelectedTag:     utils.TAG_ALL,
		HideUnknownUser: true,
		TeamEmails:      []string{},
	}
}

// Query parameter names.  These match the original dashboard URLs, so old
// shared links keep working.
const (
	paramMerchantOnly     = "merchantOnly"
	paramTeamOnly         = "teamOnly"
	paramJuspayOthersOnly = "juspayOthersOnly"
	paramTag              = "tag"
	paramCorrect          = "correct"
	paramIncorrect        = "incorrect"
	paramHideUnknown      = "hideUnknown"
	paramTeamEmails       = "teamEmails"
)

var filterParams = []string{
	paramMerchantOnly, paramTeamOnly, paramJuspayOthersOnly,
	paramTag, paramCorrect, paramIncorrect, paramHideUnknown, paramTeamEmails,
}

// HasQueryParams reports whether q carries any filter parameter, i.e. whether
// the request is a shared link with its own filter set.
func HasQueryParams(q url.Values) bool {
	for _, p := range filterParams {
		if q.Has(p) {
			return true
		}
	}
	return false
}

// Resolve merges the query string over base, parameter by parameter.  Query
// parameters always win; absent parameters keep the base value.  Precedence
// between the stored state and the query string is the caller's decision:
// ResolveFromRequest passes Default() as base for shared links, since an
// encoded link omits default-valued parameters.
func Resolve(q url.Values, base State) State {
	s := base

	if s.SelectedTag == "" {
		s.SelectedTag = utils.TAG_ALL
	}
	if s.TeamEmails == nil {
		s.TeamEmails = []string{}
	}

	if q.Has(paramMerchantOnly) {
		s.ShowOnlyMerchant = q.Get(paramMerchantOnly) == "true"
	}
	if q.Has(paramTeamOnly) {
		s.ShowOnlyTeam = q.Get(paramTeamOnly) == "true"
	}
	if q.Has(paramJuspayOthersOnly) {
		s.ShowOnlyJuspayOthers = q.Get(paramJuspayOthersOnly) == "true"
	}
	if q.Has(paramTag) {
		s.SelectedTag = q.Get(paramTag)
	}
	if q.Has(paramCorrect) {
		s.FilterCorrect = q.Get(paramCorrect) == "true"
	}
	if q.Has(paramIncorrect) {
		s.FilterIncorrect = q.Get(paramIncorrect) == "true"
	}
	if q.Has(paramHideUnknown) {
		// Only serialized when disabled, so any value other than "false"
		// still means hide.
		s.HideUnknownUser = q.Get(paramHideUnknown) != "false"
	}
	if q.Has(paramTeamEmails) {
		s.TeamEmails = decodeTeamEmails(q.Get(paramTeamEmails))
	}

	return s
}

// EncodeQuery renders the state in the shareable query-string form.
// Parameters are emitted only when they differ from the defaults, matching
// the original URL contract (note hideUnknown is inverted: present only as
// "false").
func (s State) EncodeQuery() url.Values {
	q := url.Values{}

	if s.ShowOnlyMerchant {
		q.Set(paramMerchantOnly, "true")
	}
	if s.ShowOnlyTeam {
		q.Set(paramTeamOnly, "true")
	}
	if s.ShowOnlyJuspayOthers {
		q.Set(paramJuspayOthersOnly, "true")
	}
	if s.SelectedTag != "" && s.SelectedTag != utils.TAG_ALL {
		q.Set(paramTag, s.SelectedTag)
	}
	if s.FilterCorrect {
		q.Set(paramCorrect, "true")
	}
	if s.FilterIncorrect {
		q.Set(paramIncorrect, "true")
	}
	if !s.HideUnknownUser {
		q.Set(paramHideUnknown, "false")
	}
	if len(s.TeamEmails) > 0 {
		q.Set(paramTeamEmails, encodeTeamEmails(s.TeamEmails))
	}

	return q
}

// The team email list travels in URLs as URL-encoded JSON, as the original
// page wrote it.
func encodeTeamEmails(emails []string) string {
	data, err := json.Marshal(emails)
	if err != nil {
		return ""
	}
	return url.QueryEscape(string(data))
}

func decodeTeamEmails(value string) []string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		decoded = value
	}

	var emails []string
	if err := json.Unmarshal([]byte(decoded), &emails); err != nil {
		return []string{}
	}
	return emails
}
