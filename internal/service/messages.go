package service

import "github.com/mmynk/receiptsplit/internal/models"

type NormalizeRequest struct {
	Items []models.RawItem `json:"items"`
}

type NormalizeResponse struct {
	Items    []models.Item `json:"items"`
	Subtotal float64       `json:"subtotal"`
}

type AddPersonRequest struct {
	People []models.Person `json:"people"`
	Name   string          `json:"name"`
}

type AddPersonResponse struct {
	People []models.Person `json:"people"`
	Person models.Person   `json:"person"`
}

type ToggleAssignmentRequest struct {
	Items    []models.Item `json:"items"`
	ItemID   string        `json:"itemId"`
	PersonID string        `json:"personId"`
}

type ToggleAssignmentResponse struct {
	Items []models.Item `json:"items"`
}

type RemovePersonRequest struct {
	People   []models.Person `json:"people"`
	Items    []models.Item   `json:"items"`
	PersonID string          `json:"personId"`
}

type RemovePersonResponse struct {
	People []models.Person `json:"people"`
	Items  []models.Item   `json:"items"`
}

type SplitEvenlyRequest struct {
	Items  []models.Item   `json:"items"`
	People []models.Person `json:"people"`
}

type SplitEvenlyResponse struct {
	Items []models.Item `json:"items"`
}

type ComputeTotalsRequest struct {
	Items  []models.Item   `json:"items"`
	People []models.Person `json:"people"`
	Tip    float64         `json:"tip"`
	Tax    float64         `json:"tax"`
}

// PersonTotal is one participant's share, in roster order.
type PersonTotal struct {
	PersonID string              `json:"personId"`
	Name     string              `json:"name"`
	Subtotal float64             `json:"subtotal"`
	Tip      float64             `json:"tip"`
	Tax      float64             `json:"tax"`
	Total    float64             `json:"total"`
	Items    []models.PersonItem `json:"items"`
}

type ComputeTotalsResponse struct {
	Subtotal   float64       `json:"subtotal"`
	Tip        float64       `json:"tip"`
	Tax        float64       `json:"tax"`
	Total      float64       `json:"total"`
	Unassigned float64       `json:"unassigned"`
	People     []PersonTotal `json:"people"`
}
