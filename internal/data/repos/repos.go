package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos/admin"
	"github.com/yungbote/mealpersona-backend/internal/data/repos/challenge"
	"github.com/yungbote/mealpersona-backend/internal/data/repos/user"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserFilter = user.Filter
type UserProfile = user.Profile

type ChallengeRepo = challenge.ChallengeRepo
type ChallengeLoad = challenge.Load
type ChallengeFilter = challenge.Filter
type MealRepo = challenge.MealRepo
type TagRepo = challenge.TagRepo
type TagUsage = challenge.TagUsage
type PersonaRepo = challenge.PersonaRepo

type AdminRepo = admin.AdminRepo
type AdminSessionRepo = admin.SessionRepo
type AdminActivityRepo = admin.ActivityRepo
type ActivityFilter = admin.ActivityFilter

// Set is every repository the services need, built over one *gorm.DB.
type Set struct {
	Users      UserRepo
	Challenges ChallengeRepo
	Meals      MealRepo
	Tags       TagRepo
	Personas   PersonaRepo
	Admins     AdminRepo
	Sessions   AdminSessionRepo
	Activities AdminActivityRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Users:      user.NewUserRepo(db, log),
		Challenges: challenge.NewChallengeRepo(db, log),
		Meals:      challenge.NewMealRepo(db, log),
		Tags:       challenge.NewTagRepo(db, log),
		Personas:   challenge.NewPersonaRepo(db, log),
		Admins:     admin.NewAdminRepo(db, log),
		Sessions:   admin.NewSessionRepo(db, log),
		Activities: admin.NewActivityRepo(db, log),
	}
}
