package response

type TokensResponse struct {
	Refresh string `json:"refresh,omitempty"`
	Access  string `json:"access"`
}
