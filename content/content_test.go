package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderInputUserQuery(t *testing.T) {
	r := RenderInput(json.RawMessage(`{"user_query":"How do I refund?"}`))

	assert.Equal(t, "How do I refund?", r.Text)
	assert.False(t, r.IsJSON)
}

func TestRenderInputStringifiedPayload(t *testing.T) {
	// The whole payload stored as a JSON string containing JSON.
	r := RenderInput(json.RawMessage(`"{\"user_query\":\"hello\"}"`))

	assert.Equal(t, "hello", r.Text)
}

func TestRenderInputFallsBackToJSON(t *testing.T) {
	r := RenderInput(json.RawMessage(`{"messages":[{"role":"user"}]}`))

	assert.True(t, r.IsJSON)
	assert.NotNil(t, r.JSON)
	assert.Empty(t, r.Text)
}

func TestRenderInputUnparseable(t *testing.T) {
	r := RenderInput(json.RawMessage(`not json at all`))

	assert.Equal(t, "not json at all", r.Text)
	assert.False(t, r.IsJSON)
}

func TestRenderOutputText(t *testing.T) {
	r := RenderOutput(json.RawMessage(`{"outcome":{"output":{"text":"All done."}}}`))

	assert.Equal(t, "All done.", r.Text)
}

func TestRenderOutputReplacements(t *testing.T) {
	raw := json.RawMessage(`{"outcome":{"output":{"text":"Order {id} is {state}.","replacements":{"id":"42","state":"shipped"}}}}`)

	r := RenderOutput(raw)

	assert.Equal(t, "Order 42 is shipped.", r.Text)
}

func TestRenderOutputUnresolvedPlaceholderSurvives(t *testing.T) {
	raw := json.RawMessage(`{"outcome":{"output":{"text":"Order {id}.","replacements":{"other":"x"}}}}`)

	r := RenderOutput(raw)

	assert.Equal(t, "Order {id}.", r.Text)
}

func TestRenderOutputPlainStringOutput(t *testing.T) {
	r := RenderOutput(json.RawMessage(`{"outcome":{"output":"just text"}}`))

	assert.Equal(t, "just text", r.Text)
}

func TestRenderOutputFallsBackOutward(t *testing.T) {
	r := RenderOutput(json.RawMessage(`{"something":"else"}`))

	assert.True(t, r.IsJSON)

	r = RenderOutput(json.RawMessage(`broken {`))
	assert.Equal(t, "broken {", r.Text)
}

func TestObservationArguments(t *testing.T) {
	args := ObservationArguments(json.RawMessage(`{"arguments":{"order_id":"42"}}`))

	assert.Equal(t, map[string]interface{}{"order_id": "42"}, args)
}

func TestObservationArgumentsFallback(t *testing.T) {
	args := ObservationArguments(json.RawMessage(`{"order_id":"42"}`))

	assert.Equal(t, map[string]interface{}{"order_id": "42"}, args)

	assert.Nil(t, ObservationArguments(nil))
	assert.Nil(t, ObservationArguments(json.RawMessage(`broken {`)))
}

func TestObservationResult(t *testing.T) {
	result := ObservationResult(json.RawMessage(`{"result":{"result":"shipped"}}`))

	assert.Equal(t, "shipped", result)
}

func TestObservationResultDoubleStringified(t *testing.T) {
	// The inner result is itself a JSON-encoded string.
	raw := json.RawMessage(`{"result":"{\"result\":{\"status\":\"ok\"}}"}`)

	result := ObservationResult(raw)

	assert.Equal(t, map[string]interface{}{"status": "ok"}, result)
}

func TestObservationResultFallbacks(t *testing.T) {
	// result without nesting.
	assert.Equal(t, "done", ObservationResult(json.RawMessage(`{"result":"done"}`)))

	// No result field at all: the whole payload.
	assert.Equal(t, map[string]interface{}{"other": "x"},
		ObservationResult(json.RawMessage(`{"other":"x"}`)))

	assert.Nil(t, ObservationResult(nil))
}

func TestIsLLMCall(t *testing.T) {
	assert.True(t, IsLLMCall("llm-call-completion"))
	assert.True(t, IsLLMCall("LLM-Call"))
	assert.False(t, IsLLMCall("get_order_status"))
	assert.False(t, IsLLMCall(""))
}
