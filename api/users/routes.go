package users

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog/log"

	"github.com/sdg12/foodfacts-api/auth"
	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/session"
	"github.com/sdg12/foodfacts-api/sustainability"
	"github.com/sdg12/foodfacts-api/types"
	"github.com/sdg12/foodfacts-api/util"
)

// minPasswordLength is the shortest password accepted on registration
const minPasswordLength = 8

// Routes creates a new Chi router with all of the routes for the user
// resource, at the root level
func Routes(database db.UserProvider, engine *sustainability.Engine,
	sessions session.Store) *chi.Mux {

	router := chi.NewRouter()
	router.Post("/new", Create(database, sessions))
	router.Post("/login", Login(database, sessions))
	router.Post("/logout", Logout(sessions))
	router.Post("/save", Save(database, sessions))
	router.Post("/vote/{code}/{sustainability}/{value}", Vote(engine, sessions))
	return router
}

// sessionClaim is the session identification sent by clients on
// session-bound requests. The field names are part of the wire contract.
type sessionClaim struct {
	Username  string `json:"un"`
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// validate checks the claim against the session store
func (c sessionClaim) validate(sessions session.Store) bool {
	if c.Username == "" || c.ID == "" {
		return false
	}

	active, ok := sessions.Get(c.ID)
	return ok && active.Username == c.Username
}

// Create registers a new user account and opens its first session
func Create(database db.UserProvider, sessions session.Store) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Accepted bool   `json:"accepted"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("could not parse the request body"))
			return
		}

		body.Username = strings.TrimSpace(body.Username)
		if body.Username == "" || len(body.Password) < minPasswordLength || !body.Accepted {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("problems with the received data"))
			return
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			return
		}

		now := time.Now().Unix()
		user := types.User{
			Username: body.Username,
			Hash:     hash,
			CreateT:  now,
			UpdateT:  now,
			Conf:     map[string]interface{}{},
			Vot:      types.VoteRecord{},
		}

		err = database.CreateUser(r.Context(), user)
		if err != nil {
			if _, duplicate := err.(*db.DuplicateIDError); duplicate {
				util.JSON(w, http.StatusOK, types.FailedEnvelope("the user already exists"))
				return
			}

			util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			return
		}

		log.Info().Str("username", user.Username).Msg("user registered")

		response := types.OKEnvelope()
		response["username"] = user.Username
		response["session"] = session.Issue(sessions, user.Username)
		response["conf"] = user.Conf
		response["vot"] = user.Vot
		util.JSON(w, http.StatusOK, response)
	}
}

// Login verifies credentials and opens a new session, replacing any
// previous sessions of the same user
func Login(database db.UserProvider, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("could not parse the request body"))
			return
		}

		user, err := database.GetUser(r.Context(), body.Username)
		if err != nil {
			if _, notFound := err.(*db.NotFoundError); notFound {
				util.JSON(w, http.StatusOK, types.NotFoundEnvelope(body.Username, "user"))
				return
			}

			util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			return
		}

		if !auth.CheckPassword(user.Hash, body.Password) {
			log.Warn().Str("username", body.Username).Msg("login with wrong password")
			util.JSON(w, http.StatusOK, types.NotFoundEnvelope(body.Username, "password"))
			return
		}

		log.Info().Str("username", user.Username).Msg("user logged in")

		response := types.OKEnvelope()
		response["username"] = user.Username
		response["session"] = session.Issue(sessions, user.Username)
		response["conf"] = user.Conf
		response["vot"] = user.Vot
		util.JSON(w, http.StatusOK, response)
	}
}

// Logout deletes the claimed session
func Logout(sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var claim sessionClaim
		if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("could not parse the request body"))
			return
		}

		if claim.Username == "" || claim.ID == "" {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("invalid session data"))
			return
		}

		if !sessions.Delete(claim.ID) {
			util.JSON(w, http.StatusOK, types.NotFoundEnvelope(claim.ID, "session"))
			return
		}

		util.JSON(w, http.StatusOK, types.OKEnvelope())
	}
}

// Save stores the user's preferences document after a session check
func Save(database db.UserProvider, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			sessionClaim
			Conf map[string]interface{} `json:"conf"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("could not parse the request body"))
			return
		}

		if !body.validate(sessions) {
			util.JSON(w, http.StatusOK, types.NotFoundEnvelope(body.ID, "session"))
			return
		}

		err := database.SaveUserConf(r.Context(), body.Username, body.Conf)
		if err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			return
		}

		util.JSON(w, http.StatusOK, types.OKEnvelope())
	}
}

// Vote casts a sustainability vote after a session check. The outcome
// and attribute are validated before any state is touched; domain
// errors come back in the status envelope.
func Vote(engine *sustainability.Engine, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		attribute := chi.URLParam(r, "sustainability")
		value := chi.URLParam(r, "value")

		var claim sessionClaim
		if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("could not parse the request body"))
			return
		}

		if !claim.validate(sessions) {
			util.JSON(w, http.StatusOK, types.NotFoundEnvelope(claim.ID, "session"))
			return
		}

		outcome, err := sustainability.ParseOutcome(value)
		if err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			return
		}

		result, err := engine.CastVote(r.Context(), claim.Username, code, attribute, outcome)
		if err != nil {
			switch voteErr := err.(type) {
			case *db.NotFoundError:
				util.JSON(w, http.StatusOK, types.NotFoundEnvelope(voteErr.ID, voteErr.Kind))
			case *db.InconsistentUpdateError:
				log.Error().Err(voteErr).Str("code", code).Msg("vote left records inconsistent")
				util.JSON(w, http.StatusOK, types.FailedEnvelope(voteErr.Error()))
			default:
				util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			}
			return
		}

		active, _ := sessions.Get(claim.ID)

		response := types.OKEnvelope()
		response["username"] = claim.Username
		response["session"] = active
		response["vot"] = result.Votes
		response["conf"] = result.Conf
		response["sustainability"] = result.Sustainability
		util.JSON(w, http.StatusOK, response)
	}
}
