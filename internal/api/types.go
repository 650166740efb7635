package api

// QueryRequest is the body of both POST endpoints: SQL text for run-query,
// a question for ask-ai.
type QueryRequest struct {
	Query string `json:"query"`
}

// AskResponse carries the agent's answer verbatim.
type AskResponse struct {
	Response string `json:"response"`
}

// HealthResponse reports which dataset and engine the service runs on.
type HealthResponse struct {
	Status  string `json:"status"`
	Dataset string `json:"dataset"`
	Engine  string `json:"engine"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}
