// Package mapper converts between persisted users and their wire representations.
package mapper

import (
	"time"

	"user_service/internal/model"
)

// ToPhones converts request phones into model phones, preserving order.
func ToPhones(dtos []model.PhoneDTO) []model.Phone {
	phones := make([]model.Phone, 0, len(dtos))
	for _, p := range dtos {
		phones = append(phones, model.Phone{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}
	return phones
}

// ToPhoneDTOs converts model phones into their wire shape.
func ToPhoneDTOs(phones []model.Phone) []model.PhoneDTO {
	dtos := make([]model.PhoneDTO, 0, len(phones))
	for _, p := range phones {
		dtos = append(dtos, model.PhoneDTO{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}
	return dtos
}

// ToUserResponse maps a stored user to its response. An empty token is omitted from JSON.
func ToUserResponse(u *model.User, token string) model.UserResponse {
	return model.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Phones:    ToPhoneDTOs(u.Phones),
		Created:   formatTimestamp(u.Created),
		Modified:  formatTimestamp(u.Modified),
		LastLogin: formatTimestamp(u.LastLogin),
		Token:     token,
		IsActive:  u.IsActive,
	}
}

// ToUserResponses maps a slice of users; the result is never nil so it encodes as [].
func ToUserResponses(users []model.User) []model.UserResponse {
	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i], ""))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.TimestampLayout)
}
