package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormation_PublishedAtString(t *testing.T) {
	published := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	f := Formation{PublishedAt: &published}
	assert.Equal(t, "15/03/2024", f.PublishedAtString())
	assert.Equal(t, "2024-03-15", f.PublishedAtInput())

	empty := Formation{}
	assert.Equal(t, "", empty.PublishedAtString())
	assert.Equal(t, "", empty.PublishedAtInput())
}

func TestFormation_Thumbnails(t *testing.T) {
	f := Formation{VideoID: "Z4yTTXka958"}

	assert.Equal(t, "https://i.ytimg.com/vi/Z4yTTXka958/default.jpg", f.Miniature())
	assert.Equal(t, "https://i.ytimg.com/vi/Z4yTTXka958/hqdefault.jpg", f.Picture())
	assert.Equal(t, "https://www.youtube.com/embed/Z4yTTXka958", f.EmbedURL())
}

func TestFormation_Relations(t *testing.T) {
	playlistID := uint(4)
	f := Formation{
		PlaylistID: &playlistID,
		Categories: []Categorie{{ID: 1, Name: "Java"}, {ID: 3, Name: "UML"}},
	}

	assert.True(t, f.HasCategorie(3))
	assert.False(t, f.HasCategorie(2))
	assert.True(t, f.InPlaylist(4))
	assert.False(t, f.InPlaylist(5))
	assert.Equal(t, []string{"Java", "UML"}, f.CategorieNames())

	orphan := Formation{}
	assert.False(t, orphan.InPlaylist(4))
	assert.Empty(t, orphan.CategorieNames())
}

func TestUser_Password(t *testing.T) {
	hash, err := HashPassword("admin")
	require.NoError(t, err)
	assert.NotEqual(t, "admin", hash)

	u := User{Password: hash, Roles: []string{RoleAdmin}}
	assert.True(t, u.VerifyPassword("admin"))
	assert.False(t, u.VerifyPassword("wrong"))
	assert.True(t, u.HasRole(RoleAdmin))
	assert.False(t, u.HasRole("ROLE_USER"))

	broken := User{Password: "not-a-hash"}
	assert.False(t, broken.VerifyPassword("admin"))
}
