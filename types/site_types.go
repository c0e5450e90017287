package types

import "github.com/odyssey-app/api-go/models"

type SearchSitesRequest struct {
	Location  string   `form:"location"`
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
}

type NearbySitesRequest struct {
	Latitude  float64 `form:"latitude" binding:"required"`
	Longitude float64 `form:"longitude" binding:"required"`
	Radius    float64 `form:"radius"`
	Category  string  `form:"category"`
	MaxSites  int     `form:"maxSites"`
}

type SiteMarker struct {
	ID           uint                 `json:"id" gorm:"column:id"`
	RefID        string               `json:"refId" gorm:"column:ref_id"`
	Name         string               `json:"name" gorm:"column:name"`
	Latitude     float64              `json:"latitude" gorm:"column:latitude"`
	Longitude    float64              `json:"longitude" gorm:"column:longitude"`
	HeritageType *models.HeritageType `json:"heritageType" gorm:"column:heritage_type"`
	Distance     float64              `json:"distance" gorm:"column:distance"`
}

type NearbySitesResponse struct {
	Markers []SiteMarker `json:"markers"`
	Filters struct {
		Radius   float64 `json:"radius"`
		Category string  `json:"category"`
	} `json:"filters"`
}
