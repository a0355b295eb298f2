package catalog

import (
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/util"
	"github.com/skillsenselab/funcbox/validation"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func (a *App) listUsers(c *gin.Context) {
	activeOnly, _, appErr := boolQuery(c, "active_only")
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	users := a.users.Filter(func(u User) bool {
		return !activeOnly || u.IsActive
	})
	server.RespondOK(c, util.NonNilSlice(users))
}

func (a *App) getUser(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	user, found := a.users.Get(id)
	if !found {
		server.RespondWithError(c, errors.NotFound("User", id))
		return
	}
	server.RespondOK(c, user)
}

func (a *App) createUser(c *gin.Context) {
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if !usernamePattern.MatchString(req.Username) {
		server.RespondWithError(c, errors.Validation("username: must contain only letters, digits, underscores and hyphens"))
		return
	}

	if _, exists := a.users.Find(func(u User) bool { return u.Username == req.Username }); exists {
		server.RespondWithError(c, errors.AlreadyExists("Username already exists"))
		return
	}
	if _, exists := a.users.Find(func(u User) bool { return u.Email == req.Email }); exists {
		server.RespondWithError(c, errors.AlreadyExists("Email already exists"))
		return
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}

	user := a.users.Add(User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		IsActive:     true,
		CreatedAt:    now(),
		PasswordHash: hash,
	})
	a.log.Info("User account created", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	server.RespondCreated(c, user)
}

func (a *App) deleteUser(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	if _, found := a.users.Delete(id); !found {
		server.RespondWithError(c, errors.NotFound("User", id))
		return
	}
	a.log.Info("User account deleted", map[string]interface{}{"user_id": id})
	server.RespondNoContent(c)
}

func (a *App) findUserByUsername(username string) (User, bool) {
	return a.users.Find(func(u User) bool { return u.Username == username })
}
