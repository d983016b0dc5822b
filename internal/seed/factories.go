// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"vybeecho/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedPassword is the shared password for all generated accounts.
const seedPassword = "Password123456"

var echoCategories = []string{"General", "Music", "Stories", "Daily", "Rants", "Interviews"}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)

	user := &models.User{
		Name:       gofakeit.Name(),
		Email:      gofakeit.Email(),
		Password:   string(hashed),
		Bio:        gofakeit.Sentence(10),
		Headline:   gofakeit.JobTitle(),
		ProfilePic: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildEcho constructs an echo authored by the given user without
// persisting it. Useful for batching.
func (f *Factory) BuildEcho(user *models.User, overrides ...func(*models.Echo)) *models.Echo {
	minutes := f.rnd.Intn(9)
	seconds := f.rnd.Intn(60)

	echo := &models.Echo{
		UserID:      user.ID,
		AuthorName:  user.Name,
		AuthorEmail: user.Email,
		Title:       gofakeit.Sentence(4),
		Content:     gofakeit.Paragraph(1, 2, 8, "\n"),
		AudioURL:    fmt.Sprintf("https://cdn.vybe-echo.dev/audio/%s.mp3", gofakeit.UUID()),
		Duration:    fmt.Sprintf("%d:%02d", minutes, seconds),
		Category:    echoCategories[f.rnd.Intn(len(echoCategories))],
		Likes:       f.rnd.Intn(250),
	}
	if f.rnd.Intn(3) == 0 {
		echo.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	// Realistic created_at spread over the last 90 days.
	daysBack := f.rnd.Intn(90)
	hoursBack := f.rnd.Intn(24)
	echo.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(echo)
	}
	return echo
}

// CreateEchoesBatch persists multiple echoes in a single DB call.
func (f *Factory) CreateEchoesBatch(echoes []*models.Echo) error {
	if len(echoes) == 0 {
		return nil
	}
	return f.db.Create(&echoes).Error
}

// CreateComment persists a comment by the given user on the given echo.
func (f *Factory) CreateComment(echo *models.Echo, user *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		EchoID: echo.ID,
		Author: user.Name,
		Body:   gofakeit.Sentence(8),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateConnection persists a connection row between two users with the
// given status.
func (f *Factory) CreateConnection(requester, addressee *models.User, status models.ConnectionStatus) (*models.Connection, error) {
	conn := &models.Connection{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      status,
	}
	if err := f.db.Create(conn).Error; err != nil {
		return nil, err
	}
	return conn, nil
}
