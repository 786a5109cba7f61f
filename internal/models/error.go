package models

// APIError is the presentable form of a failed invocation
type APIError struct {
	Provider   string // ProviderBrave or ProviderLinkup
	Mode       string // Linkup only: "search" or "fetch"
	Query      string
	URL        string
	StatusCode int
	Message    string
	Kind       string
}

// MarshalJSON renders the provider-specific error document
func (e APIError) MarshalJSON() ([]byte, error) {
	if e.Provider == ProviderLinkup {
		out := struct {
			Mode         string `json:"mode"`
			Query        string `json:"query,omitempty"`
			URL          string `json:"url,omitempty"`
			Error        bool   `json:"error"`
			ErrorMessage string `json:"error_message"`
			StatusCode   int    `json:"status_code,omitempty"`
			ErrorType    string `json:"error_type"`
		}{
			Mode:         e.Mode,
			Query:        e.Query,
			URL:          e.URL,
			Error:        true,
			ErrorMessage: e.Message,
			StatusCode:   e.StatusCode,
			ErrorType:    e.Kind,
		}
		return marshal(out)
	}

	out := struct {
		Error      bool   `json:"error"`
		Query      string `json:"query"`
		StatusCode int    `json:"status_code,omitempty"`
		Message    string `json:"message"`
		ErrorType  string `json:"error_type"`
	}{
		Error:      true,
		Query:      e.Query,
		StatusCode: e.StatusCode,
		Message:    e.Message,
		ErrorType:  e.Kind,
	}
	return marshal(out)
}
