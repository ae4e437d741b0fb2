package session

import "github.com/burbla/burbla-backend/internal/entity"

// toSessionDTO converts Session entity to SessionDTO
func toSessionDTO(session *entity.Session) *entity.SessionDTO {
	return &entity.SessionDTO{
		ID:          session.ID,
		Name:        session.Name,
		OwnerID:     session.OwnerID,
		MemberIDs:   session.MemberIDs,
		LastUpdated: session.LastUpdated,
		CreatedDate: session.CreatedDate,
	}
}

func toSessionDTOs(sessions []*entity.Session) []*entity.SessionDTO {
	dtos := make([]*entity.SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, toSessionDTO(s))
	}
	return dtos
}
