package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"vybeecho/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a believable social mesh: users,
// connections in both pending and connected states, and echoes with
// comments layered on top.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rnd     *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded domain data. Comments go first so foreign
// keys never dangle.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{"comments", "echoes", "connections", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedSocialMesh creates numUsers accounts and wires a connection graph
// between them: roughly half the pairs picked get connected, the rest are
// left as pending requests so accept/reject flows have data to work with.
func (s *Seeder) SeedSocialMesh(numUsers int) ([]*models.User, error) {
	log.Printf("Creating %d users...", numUsers)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}

	log.Println("Wiring connection graph...")
	created := 0
	for i, requester := range users {
		// Each user reaches out to a handful of later users, so every
		// pair is attempted at most once.
		attempts := s.rnd.Intn(4) + 1
		for a := 0; a < attempts && i+1+a < len(users); a++ {
			addressee := users[i+1+s.rnd.Intn(len(users)-i-1)]
			if addressee.ID == requester.ID {
				continue
			}

			status := models.ConnectionStatusPending
			if s.rnd.Intn(2) == 0 {
				status = models.ConnectionStatusConnected
			}
			if _, err := s.factory.CreateConnection(requester, addressee, status); err != nil {
				// Duplicate pair picked twice, skip it.
				continue
			}
			created++
		}
	}
	log.Printf("Created %d connections", created)

	return users, nil
}

// SeedEngagement creates numEchoes voice notes across the given users and
// sprinkles comments on them.
func (s *Seeder) SeedEngagement(users []*models.User, numEchoes int) ([]*models.Echo, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to seed echoes for")
	}
	log.Printf("Creating %d echoes...", numEchoes)

	echoes := make([]*models.Echo, 0, numEchoes)
	for i := 0; i < numEchoes; i++ {
		author := users[s.rnd.Intn(len(users))]
		echoes = append(echoes, s.factory.BuildEcho(author))
	}
	if err := s.factory.CreateEchoesBatch(echoes); err != nil {
		return nil, fmt.Errorf("failed to create echoes: %w", err)
	}

	log.Println("Adding comments...")
	comments := 0
	for _, echo := range echoes {
		for c := 0; c < s.rnd.Intn(4); c++ {
			commenter := users[s.rnd.Intn(len(users))]
			if _, err := s.factory.CreateComment(echo, commenter); err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("Created %d comments", comments)

	return echoes, nil
}
