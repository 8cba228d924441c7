package dto

type CatalogResponse struct {
	Items []string `json:"items"`
}
