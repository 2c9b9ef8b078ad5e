package services

import (
	"rocketchat-slack-export/internal/domain"
)

// NormalizeService преобразует исходные документы в целевые схемы Slack.
type NormalizeService struct{}

// NewNormalizeService создает новый экземпляр NormalizeService.
func NewNormalizeService() *NormalizeService {
	return &NormalizeService{}
}

// NormalizeUser преобразует пользователя Rocket.Chat в запись импорта Slack.
// Отсутствующий email становится пустой строкой, active=false превращается
// в deleted=true; отсутствующие поля никогда не приводят к ошибке.
func (s *NormalizeService) NormalizeUser(user domain.SourceUser, slackID string) domain.TargetUser {
	email, _ := user.PrimaryEmail()

	return domain.TargetUser{
		ID:      slackID, // временный ID; Slack переназначит его при импорте
		Name:    user.Username,
		Deleted: !user.IsActive(),
		Profile: domain.TargetProfile{
			RealName: user.DisplayName(),
			Email:    email,
		},
	}
}

// NormalizeRoom преобразует комнату Rocket.Chat в запись импорта Slack.
// Метка времени усекается до целых секунд без округления.
func (s *NormalizeService) NormalizeRoom(room domain.SourceRoom, isPrivate bool) domain.TargetRoom {
	return domain.TargetRoom{
		ID:         "C" + room.ID, // временный ID
		Name:       ChannelSlug(room),
		Created:    room.CreatedAt.Unix(),
		IsArchived: room.Archived,
		IsPrivate:  isPrivate,
	}
}
