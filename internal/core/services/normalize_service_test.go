package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rocketchat-slack-export/internal/domain"
)

func TestNormalizeUser(t *testing.T) {
	service := NewNormalizeService()

	t.Run("переносит все поля в целевую схему", func(t *testing.T) {
		user := domain.SourceUser{
			ID:       "u1",
			Username: "bob",
			Name:     "Bob Smith",
			Emails:   domain.EmailField{Addresses: []string{"bob@example.com"}},
		}

		target := service.NormalizeUser(user, "U0000001")

		assert.Equal(t, "U0000001", target.ID)
		assert.Equal(t, "bob", target.Name)
		assert.False(t, target.Deleted)
		assert.Equal(t, "Bob Smith", target.Profile.RealName)
		assert.Equal(t, "bob@example.com", target.Profile.Email)
	})

	t.Run("active=false превращается в deleted=true", func(t *testing.T) {
		active := false
		user := domain.SourceUser{ID: "u1", Username: "bob", Active: &active}

		target := service.NormalizeUser(user, "U0000001")
		assert.True(t, target.Deleted)
	})

	t.Run("отсутствующие поля получают значения по умолчанию", func(t *testing.T) {
		user := domain.SourceUser{ID: "u1", Username: "bob"}

		target := service.NormalizeUser(user, "U0000001")

		assert.False(t, target.Deleted)
		assert.Equal(t, "bob", target.Profile.RealName)
		assert.Equal(t, "", target.Profile.Email)
	})
}

func TestNormalizeRoom(t *testing.T) {
	service := NewNormalizeService()

	t.Run("переносит все поля в целевую схему", func(t *testing.T) {
		created := time.Unix(1700000000, 0).UTC()
		room := domain.SourceRoom{
			ID:        "r1",
			Kind:      domain.RoomPublicChannel,
			Name:      "Dev Talk",
			CreatedAt: created,
			Archived:  true,
		}

		target := service.NormalizeRoom(room, false)

		assert.Equal(t, "Cr1", target.ID)
		assert.Equal(t, "dev-talk", target.Name)
		assert.Equal(t, int64(1700000000), target.Created)
		assert.True(t, target.IsArchived)
		assert.False(t, target.IsPrivate)
	})

	t.Run("метка времени усекается до целых секунд", func(t *testing.T) {
		created := time.Unix(1700000000, 999_000_000).UTC()
		room := domain.SourceRoom{ID: "r1", CreatedAt: created}

		target := service.NormalizeRoom(room, true)
		assert.Equal(t, int64(1700000000), target.Created)
	})

	t.Run("личное сообщение без имени получает имя из usernames", func(t *testing.T) {
		room := domain.SourceRoom{ID: "r2", Usernames: []string{"bob", "alice"}}

		target := service.NormalizeRoom(room, true)

		assert.Equal(t, "alice-bob", target.Name)
		assert.True(t, target.IsPrivate)
	})
}
