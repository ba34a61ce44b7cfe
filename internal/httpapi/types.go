package httpapi

import contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type conversationResponse struct {
	SessionID string           `json:"session_id"`
	History   []contractx.Turn `json:"history"`
}

type itemsResponse struct {
	Items []contractx.Item `json:"items"`
}

type searchRequest struct {
	SearchQuery string   `json:"search_query"`
	MinPrice    *float64 `json:"min_price"`
	MaxPrice    *float64 `json:"max_price"`
	SortBy      string   `json:"sort_by"`
}

type searchResponse struct {
	Items []contractx.Item `json:"items"`
	Count int              `json:"count"`
}

type itemResponse struct {
	Item contractx.Item `json:"item"`
}

// wsError is sent over the websocket when a frame cannot be answered.
type wsError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
