package figma

type fileResponse struct {
	Name    string               `json:"name"`
	Version string               `json:"version"`
	Styles  map[string]styleData `json:"styles"`
}

type styleData struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	StyleType   string `json:"styleType"`
	Remote      bool   `json:"remote"`
	Description string `json:"description"`
}
