package handler

import "github.com/jcabrera-io/wayfarer/internal/domain"

// UserDTO is the JSON representation of a user. The password digest is
// never serialized.
type UserDTO struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image,omitempty"`
	Places []string `json:"places"`
}

func toUserDTO(u *domain.User) UserDTO {
	places := u.Places
	if places == nil {
		places = []string{}
	}
	return UserDTO{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.ImageKey,
		Places: places,
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// LocationDTO is the JSON representation of a coordinate pair.
type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceDTO is the JSON representation of a place.
type PlaceDTO struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	Location    LocationDTO `json:"location"`
	Image       string      `json:"image,omitempty"`
	Creator     string      `json:"creator"`
}

func toPlaceDTO(p *domain.Place) PlaceDTO {
	return PlaceDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    LocationDTO{Lat: p.Location.Lat, Lng: p.Location.Lng},
		Image:       p.ImageKey,
		Creator:     p.Creator,
	}
}

func toPlaceDTOs(places []domain.Place) []PlaceDTO {
	dtos := make([]PlaceDTO, len(places))
	for i := range places {
		dtos[i] = toPlaceDTO(&places[i])
	}
	return dtos
}
