package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sdg12/foodfacts-api/auth"
	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/session"
	"github.com/sdg12/foodfacts-api/sustainability"
	"github.com/sdg12/foodfacts-api/types"
)

// fakeProvider keeps users and products in plain maps so the handlers
// can be exercised without a live database
type fakeProvider struct {
	users    map[string]*types.User
	products map[string]types.Product
	conf     map[string]map[string]interface{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		users:    map[string]*types.User{},
		products: map[string]types.Product{},
		conf:     map[string]map[string]interface{}{},
	}
}

func (f *fakeProvider) GetUser(ctx context.Context, username string) (*types.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, db.NewNotFoundError("user", username)
	}
	return user, nil
}

func (f *fakeProvider) CreateUser(ctx context.Context, user types.User) error {
	if _, exists := f.users[user.Username]; exists {
		return db.NewDuplicateIDError(user.Username)
	}
	f.users[user.Username] = &user
	return nil
}

func (f *fakeProvider) SaveUserConf(ctx context.Context, username string, conf map[string]interface{}) error {
	if _, ok := f.users[username]; !ok {
		return db.NewNotFoundError("user", username)
	}
	f.conf[username] = conf
	return nil
}

func (f *fakeProvider) SetUserVote(ctx context.Context, username string, code string, attribute string, outcome *bool) error {
	user, ok := f.users[username]
	if !ok {
		return db.NewNotFoundError("user", username)
	}
	if user.Vot == nil {
		user.Vot = types.VoteRecord{}
	}
	if user.Vot[code] == nil {
		user.Vot[code] = map[string]*bool{}
	}
	user.Vot[code][attribute] = outcome
	return nil
}

func (f *fakeProvider) GetProductByBarcode(ctx context.Context, barcode string) (types.Product, error) {
	return f.GetProductByCode(ctx, barcode)
}

func (f *fakeProvider) GetProductByCode(ctx context.Context, code string) (types.Product, error) {
	product, ok := f.products[code]
	if !ok {
		return nil, db.NewNotFoundError("product", code)
	}
	product.EnsureSustainability()
	return product, nil
}

func (f *fakeProvider) GetFacetValues(ctx context.Context, facet string) ([]string, error) {
	return nil, nil
}

func (f *fakeProvider) GetCategoryProducts(ctx context.Context, plural string, facet string, options db.Options) ([]types.Product, error) {
	return nil, nil
}

func (f *fakeProvider) SearchProducts(ctx context.Context, fragments []bson.M, options db.Options) ([]types.Product, error) {
	return nil, nil
}

func (f *fakeProvider) ApplyVote(ctx context.Context, code string, increments map[string]int, level float64) error {
	product, ok := f.products[code]
	if !ok {
		return db.NewNotFoundError("product", code)
	}
	tally := product.Sustainability()
	for key, delta := range increments {
		tally[key] += float64(delta)
	}
	tally[types.LevelKey] = level
	return nil
}

func newTestRouter(provider *fakeProvider, sessions session.Store) http.Handler {
	engine := sustainability.NewEngine(provider, provider)
	return Routes(provider, engine, sessions)
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) types.Envelope {
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope types.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func registeredUser(t *testing.T, provider *fakeProvider, username string, password string) {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	provider.users[username] = &types.User{
		Username: username,
		Hash:     hash,
		Conf:     map[string]interface{}{},
		Vot:      types.VoteRecord{},
	}
}

func TestCreate(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)

	envelope := postJSON(t, router, "/new", map[string]interface{}{
		"username": "ana",
		"password": "correct horse",
		"accepted": true,
	})

	assert.Equal(t, float64(1), envelope["status"])
	assert.Equal(t, "ana", envelope["username"])

	issued, ok := envelope["session"].(map[string]interface{})
	require.True(t, ok)
	stored, ok := sessions.Get(issued["id"].(string))
	require.True(t, ok)
	assert.Equal(t, "ana", stored.Username)

	require.Contains(t, provider.users, "ana")
	assert.True(t, auth.CheckPassword(provider.users["ana"].Hash, "correct horse"))
}

func TestCreateRejectsBadRegistrations(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)

	cases := []map[string]interface{}{
		{"username": "", "password": "long enough", "accepted": true},
		{"username": "ana", "password": "short", "accepted": true},
		{"username": "ana", "password": "long enough", "accepted": false},
	}
	for _, body := range cases {
		envelope := postJSON(t, router, "/new", body)
		assert.Equal(t, float64(0), envelope["status"])
		assert.Equal(t, "problems with the received data", envelope["status_verbose"])
	}
	assert.Empty(t, provider.users)
}

func TestCreateDuplicateUsername(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")

	envelope := postJSON(t, router, "/new", map[string]interface{}{
		"username": "ana",
		"password": "correct horse",
		"accepted": true,
	})

	assert.Equal(t, float64(0), envelope["status"])
	assert.Equal(t, "the user already exists", envelope["status_verbose"])
}

func TestLogin(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")

	envelope := postJSON(t, router, "/login", map[string]interface{}{
		"username": "ana",
		"password": "correct horse",
	})

	assert.Equal(t, float64(1), envelope["status"])
	issued, ok := envelope["session"].(map[string]interface{})
	require.True(t, ok)
	_, active := sessions.Get(issued["id"].(string))
	assert.True(t, active)
}

func TestLoginReplacesOlderSessions(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")
	old := session.Issue(sessions, "ana")

	postJSON(t, router, "/login", map[string]interface{}{
		"username": "ana",
		"password": "correct horse",
	})

	_, stillActive := sessions.Get(old.ID)
	assert.False(t, stillActive)
}

func TestLoginWrongPassword(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")

	envelope := postJSON(t, router, "/login", map[string]interface{}{
		"username": "ana",
		"password": "wrong horse",
	})

	assert.Equal(t, float64(0), envelope["status"])
	assert.Equal(t, "password not found", envelope["status_verbose"])
}

func TestLoginUnknownUser(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)

	envelope := postJSON(t, router, "/login", map[string]interface{}{
		"username": "nobody",
		"password": "correct horse",
	})

	assert.Equal(t, float64(0), envelope["status"])
	assert.Equal(t, "user not found", envelope["status_verbose"])
	assert.Equal(t, "nobody", envelope["user"])
}

func TestLogout(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	active := session.Issue(sessions, "ana")

	envelope := postJSON(t, router, "/logout", map[string]interface{}{
		"un": "ana",
		"id": active.ID,
	})

	assert.Equal(t, float64(1), envelope["status"])
	_, stillActive := sessions.Get(active.ID)
	assert.False(t, stillActive)
}

func TestLogoutUnknownSession(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)

	envelope := postJSON(t, router, "/logout", map[string]interface{}{
		"un": "ana",
		"id": "stale-handle",
	})

	assert.Equal(t, float64(0), envelope["status"])
	assert.Equal(t, "session not found", envelope["status_verbose"])
}

func TestSave(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")
	active := session.Issue(sessions, "ana")

	envelope := postJSON(t, router, "/save", map[string]interface{}{
		"un":   "ana",
		"id":   active.ID,
		"conf": map[string]interface{}{"lang": "es"},
	})

	assert.Equal(t, float64(1), envelope["status"])
	assert.Equal(t, map[string]interface{}{"lang": "es"}, provider.conf["ana"])
}

func TestSaveRequiresValidSession(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")
	active := session.Issue(sessions, "ana")

	// Session handle belongs to a different username
	envelope := postJSON(t, router, "/save", map[string]interface{}{
		"un":   "bruno",
		"id":   active.ID,
		"conf": map[string]interface{}{},
	})

	assert.Equal(t, float64(0), envelope["status"])
	assert.Equal(t, "session not found", envelope["status_verbose"])
	assert.Empty(t, provider.conf)
}

func TestVote(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")
	provider.products["1234"] = types.Product{"code": "1234"}
	active := session.Issue(sessions, "ana")

	envelope := postJSON(t, router, "/vote/1234/palm-oil/true", map[string]interface{}{
		"un": "ana",
		"id": active.ID,
	})

	require.Equal(t, float64(1), envelope["status"])
	tally, ok := envelope["sustainability"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), tally["en:palm-oil_ok"])

	votes, ok := envelope["vot"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, votes, "1234")
}

func TestVoteRequiresValidSession(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")
	provider.products["1234"] = types.Product{"code": "1234"}

	envelope := postJSON(t, router, "/vote/1234/palm-oil/true", map[string]interface{}{
		"un": "ana",
		"id": "stale-handle",
	})

	assert.Equal(t, float64(0), envelope["status"])
	assert.Equal(t, "session not found", envelope["status_verbose"])
}

func TestVoteRejectsBadValue(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")
	active := session.Issue(sessions, "ana")

	envelope := postJSON(t, router, "/vote/1234/palm-oil/maybe", map[string]interface{}{
		"un": "ana",
		"id": active.ID,
	})

	assert.Equal(t, float64(0), envelope["status"])
}

func TestVoteUnknownProduct(t *testing.T) {
	provider := newFakeProvider()
	sessions := session.NewMemoryStore(0, 0)
	router := newTestRouter(provider, sessions)
	registeredUser(t, provider, "ana", "correct horse")
	active := session.Issue(sessions, "ana")

	envelope := postJSON(t, router, "/vote/9999/palm-oil/true", map[string]interface{}{
		"un": "ana",
		"id": active.ID,
	})

	assert.Equal(t, float64(0), envelope["status"])
	assert.Equal(t, "product not found", envelope["status_verbose"])
	assert.Equal(t, "9999", envelope["product"])
}
