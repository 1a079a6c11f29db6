package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/mail"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/resettoken"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type captureMailer struct {
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Message string                 `json:"message"`
		Code    int                    `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

// APITestSuite drives the full router against an in-memory database.
type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	mailer *captureMailer
	cfg    *config.Config
	router *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{GinMode: gin.TestMode},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			Issuer:        "http://localhost",
			Audience:      "http://localhost",
			TokenTTL:      time.Hour,
			BcryptCost:    4,
			ResetTokenTTL: time.Hour,
		},
		Mail: config.MailConfig{ResetURL: "http://front.test/redefinir-senha"},
		CORS: config.CORSConfig{AllowedOrigins: "*"},
	}
}

func (s *APITestSuite) SetupTest() {
	var err error

	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(database.Migrate(s.db))

	s.mr = miniredis.RunT(s.T())
	s.rdb = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	s.mailer = &captureMailer{}
	s.cfg = testConfig()
	s.router = newRouter(s.cfg, Deps{
		DB:     s.db,
		Redis:  s.rdb,
		Store:  resettoken.NewRedisStore(s.rdb),
		Mailer: s.mailer,
	})
}

func (s *APITestSuite) TearDownTest() {
	_ = s.rdb.Close()
	s.Require().NoError(database.Close(s.db))
}

func (s *APITestSuite) do(method, path string, body interface{}, tok string) (*httptest.ResponseRecorder, response) {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			s.Require().NoError(json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp response
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func (s *APITestSuite) data(resp response) map[string]interface{} {
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(resp.Data, &out))
	return out
}

func (s *APITestSuite) register(name, email string) uint64 {
	w, resp := s.do(http.MethodPost, "/api/usuario", gin.H{"usuario": gin.H{"nome": name, "email": email, "senha": "segredo123"}}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return uint64(s.data(resp)["id"].(float64))
}

func (s *APITestSuite) login(email, password string) string {
	w, resp := s.do(http.MethodPost, "/api/usuario/login", gin.H{"usuario": gin.H{"email": email, "senha": password}}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return s.data(resp)["token"].(string)
}

func (s *APITestSuite) user(name, email string) (uint64, string) {
	id := s.register(name, email)
	return id, s.login(email, "segredo123")
}

func (s *APITestSuite) admin() string {
	s.register("Admin", "admin@example.com")
	s.Require().NoError(s.db.Model(&models.User{}).Where("email = ?", "admin@example.com").Update("role", "admin").Error)
	return s.login("admin@example.com", "segredo123")
}

func (s *APITestSuite) createTask(tok string, body gin.H) map[string]interface{} {
	w, resp := s.do(http.MethodPost, "/api/tarefa", gin.H{"tarefa": body}, tok)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return s.data(resp)
}

func (s *APITestSuite) TestLogin_ReturnsTokenAndUser() {
	id := s.register("Ana", "a@b.com")

	w, resp := s.do(http.MethodPost, "/api/usuario/login", gin.H{"usuario": gin.H{"email": "a@b.com", "senha": "segredo123"}}, "")
	s.Equal(http.StatusOK, w.Code)
	s.True(resp.Success)
	data := s.data(resp)
	s.NotEmpty(data["token"])
	usuario := data["usuario"].(map[string]interface{})
	s.Equal(float64(id), usuario["id"])
	s.NotContains(w.Body.String(), "senha_hash")

	w, resp = s.do(http.MethodPost, "/api/usuario/login", gin.H{"email": "a@b.com", "senha": "errada"}, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(resp.Success)
	s.Equal(http.StatusUnauthorized, resp.Error.Code)
	s.Equal("Email ou senha incorretos", resp.Error.Message)
}

func (s *APITestSuite) TestRegister_DuplicateEmailAndMalformedBody() {
	s.register("Ana", "a@b.com")

	w, resp := s.do(http.MethodPost, "/api/usuario", gin.H{"nome": "Outra", "email": "a@b.com", "senha": "x"}, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Email já cadastrado", resp.Error.Message)

	w, _ = s.do(http.MethodPost, "/api/usuario", "{not json", "")
	s.Equal(http.StatusBadRequest, w.Code)

	w, resp = s.do(http.MethodGet, "/api/usuario/verificar-email/a@b.com", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.data(resp)["existe"])
}

func (s *APITestSuite) TestAuthRequired() {
	w, resp := s.do(http.MethodGet, "/api/projeto/meus-projetos", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Token de autenticação não fornecido", resp.Error.Message)

	w, resp = s.do(http.MethodGet, "/api/projeto/meus-projetos", nil, "garbage")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Token inválido ou expirado", resp.Error.Message)
}

func (s *APITestSuite) TestProject_OwnershipIsolation() {
	_, ana := s.user("Ana", "ana@example.com")
	_, bob := s.user("Bob", "bob@example.com")

	w, resp := s.do(http.MethodPost, "/api/projeto", gin.H{"projeto": gin.H{"nome": "Portal", "data_inicio": "01/03/2025"}}, ana)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	project := s.data(resp)
	s.Equal("Ana", project["usuario_nome"])
	s.Equal("2025-03-01", project["data_inicio"])
	path := "/api/projeto/" + jsonID(project["id"])

	w, resp = s.do(http.MethodGet, path, nil, bob)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Projeto não encontrado", resp.Error.Message)

	w, _ = s.do(http.MethodPut, path, gin.H{"nome": "Tomado"}, bob)
	s.Equal(http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodDelete, path, nil, bob)
	s.Equal(http.StatusNotFound, w.Code)

	w, resp = s.do(http.MethodGet, "/api/projeto/meus-projetos", nil, bob)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(float64(0), s.data(resp)["total"])

	w, resp = s.do(http.MethodPut, path, gin.H{"projeto": gin.H{"status": "andamento"}}, ana)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Portal", s.data(resp)["nome"])

	w, _ = s.do(http.MethodGet, "/api/projeto/abc", nil, ana)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestProject_NameBoundary() {
	_, ana := s.user("Ana", "ana@example.com")

	w, _ := s.do(http.MethodPost, "/api/projeto", gin.H{"nome": "ABC"}, ana)
	s.Equal(http.StatusCreated, w.Code)

	w, resp := s.do(http.MethodPost, "/api/projeto", gin.H{"nome": "AB"}, ana)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("nome", resp.Error.Details["campo"])
}

func (s *APITestSuite) TestTask_MissingProjectInsertsNothing() {
	_, ana := s.user("Ana", "ana@example.com")

	w, resp := s.do(http.MethodPost, "/api/tarefa", gin.H{"tarefa": gin.H{"titulo": "Escrever", "projeto_id": 99999}}, ana)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(resp.Error.Message, "99999")
	s.Equal("projeto_id", resp.Error.Details["campo"])

	var count int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&count).Error)
	s.Zero(count)
}

func (s *APITestSuite) TestTask_DateRoundTrip() {
	_, ana := s.user("Ana", "ana@example.com")

	task := s.createTask(ana, gin.H{"titulo": "Revisar", "data_limite": "05/11/2025"})
	s.Equal("2025-11-05", task["data_limite"])
	s.Nil(task["data_inicio"])
	s.Equal("Ana", task["responsavel_nome"])
	s.Equal("Ana", task["atribuidor_nome"])

	w, resp := s.do(http.MethodGet, "/api/tarefa/"+jsonID(task["id"]), nil, ana)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("2025-11-05", s.data(resp)["data_limite"])

	w, resp = s.do(http.MethodPost, "/api/tarefa", gin.H{"titulo": "Revisar", "data_limite": "31/02/2025"}, ana)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("data_limite", resp.Error.Details["campo"])
}

func (s *APITestSuite) TestTask_ToggleTwiceRestores() {
	_, ana := s.user("Ana", "ana@example.com")
	task := s.createTask(ana, gin.H{"titulo": "Alternar"})
	path := "/api/tarefa/" + jsonID(task["id"]) + "/toggle-concluir"

	_, resp := s.do(http.MethodPut, path, nil, ana)
	s.Equal(true, s.data(resp)["concluida"])
	s.Equal("concluida", s.data(resp)["status"])

	_, resp = s.do(http.MethodPut, path, nil, ana)
	s.Equal(false, s.data(resp)["concluida"])
	s.Equal("pendente", s.data(resp)["status"])
}

func (s *APITestSuite) TestTask_CompleteAndFilters() {
	_, ana := s.user("Ana", "ana@example.com")
	_, bob := s.user("Bob", "bob@example.com")
	first := s.createTask(ana, gin.H{"titulo": "Primeira"})
	s.createTask(ana, gin.H{"titulo": "Segunda", "prioridade": "alta"})
	path := "/api/tarefa/" + jsonID(first["id"]) + "/concluir"

	w, resp := s.do(http.MethodPut, path, nil, ana)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.data(resp)["concluida"])

	w, _ = s.do(http.MethodPut, path, gin.H{"concluida": "não"}, bob)
	s.Equal(http.StatusNotFound, w.Code)

	_, resp = s.do(http.MethodPut, path, gin.H{"concluida": "talvez"}, ana)
	s.Equal(http.StatusBadRequest, resp.Error.Code)

	_, resp = s.do(http.MethodPut, path, gin.H{"concluida": 1}, ana)
	s.Equal(true, s.data(resp)["concluida"])

	w, resp = s.do(http.MethodGet, "/api/tarefa/minhas-tarefas?concluida=sim", nil, ana)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(float64(1), s.data(resp)["total"])

	_, resp = s.do(http.MethodGet, "/api/tarefa/minhas-tarefas?prioridade=alta&limit=5", nil, ana)
	list := s.data(resp)
	s.Equal(float64(1), list["total"])
	s.Equal(float64(5), list["limit"])

	w, _ = s.do(http.MethodGet, "/api/tarefa/minhas-tarefas?concluida=talvez", nil, ana)
	s.Equal(http.StatusBadRequest, w.Code)

	w, resp = s.do(http.MethodGet, "/api/tarefa/dashboard", nil, ana)
	s.Equal(http.StatusOK, w.Code)
	d := s.data(resp)
	s.Equal(float64(2), d["total"])
	s.Equal(float64(1), d["concluidas"])
	s.Equal(float64(1), d["prioridade_alta"])
}

func (s *APITestSuite) TestTask_AssignToOtherUser() {
	bobID, bob := s.user("Bob", "bob@example.com")
	_, ana := s.user("Ana", "ana@example.com")

	task := s.createTask(ana, gin.H{"titulo": "Delegada", "usuario_responsavel_id": bobID})
	s.Equal("Bob", task["responsavel_nome"])
	s.Equal("Ana", task["atribuidor_nome"])

	_, resp := s.do(http.MethodGet, "/api/tarefa/atribuidas-por-mim", nil, ana)
	s.Equal(float64(1), s.data(resp)["total"])

	w, _ := s.do(http.MethodGet, "/api/tarefa/"+jsonID(task["id"]), nil, ana)
	s.Equal(http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodGet, "/api/tarefa/"+jsonID(task["id"]), nil, bob)
	s.Equal(http.StatusOK, w.Code)

	w, resp = s.do(http.MethodPost, "/api/tarefa", gin.H{"titulo": "Fantasma", "usuario_responsavel_id": 4242}, ana)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(resp.Error.Message, "4242")
}

func (s *APITestSuite) TestUserRoutes_SelfOrAdmin() {
	anaID, ana := s.user("Ana", "ana@example.com")
	bobID, bob := s.user("Bob", "bob@example.com")
	admin := s.admin()

	w, _ := s.do(http.MethodGet, "/api/usuario/"+jsonID(float64(anaID)), nil, bob)
	s.Equal(http.StatusForbidden, w.Code)

	w, resp := s.do(http.MethodGet, "/api/usuario/me", nil, ana)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ana@example.com", s.data(resp)["email"])

	w, _ = s.do(http.MethodGet, "/api/usuario", nil, ana)
	s.Equal(http.StatusForbidden, w.Code)

	w, resp = s.do(http.MethodGet, "/api/usuario", nil, admin)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(float64(3), s.data(resp)["total"])

	w, resp = s.do(http.MethodPut, "/api/usuario/"+jsonID(float64(bobID)), gin.H{"usuario": gin.H{"empresa": "Acme"}}, admin)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Acme", s.data(resp)["empresa"])

	w, _ = s.do(http.MethodDelete, "/api/usuario/"+jsonID(float64(bobID)), nil, bob)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/usuario/email/bob@example.com", nil, admin)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/usuario/logout", nil, ana)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestPasswordReset() {
	s.register("Ana", "ana@example.com")

	w, resp := s.do(http.MethodPost, "/api/auth/recuperar-senha", gin.H{"email": "ninguem@example.com"}, "")
	s.Equal(http.StatusOK, w.Code)
	unknownMsg := resp.Message
	s.Empty(s.mailer.sent)

	w, resp = s.do(http.MethodPost, "/api/auth/recuperar-senha", gin.H{"email": "ana@example.com"}, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(unknownMsg, resp.Message)
	s.Require().Len(s.mailer.sent, 1)

	body := s.mailer.sent[0].Body
	idx := strings.Index(body, "token=")
	s.Require().NotEqual(-1, idx)
	tok := strings.Fields(body[idx+len("token="):])[0]

	w, _ = s.do(http.MethodPost, "/api/auth/redefinir-senha", gin.H{"token": tok, "senha": "nova-senha"}, "")
	s.Equal(http.StatusOK, w.Code)

	w, resp = s.do(http.MethodPost, "/api/auth/redefinir-senha", gin.H{"token": tok, "senha": "outra"}, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Token inválido ou expirado", resp.Error.Message)

	s.NotEmpty(s.login("ana@example.com", "nova-senha"))
}

func (s *APITestSuite) TestPasswordReset_OverlongPasswordKeepsToken() {
	s.register("Ana", "ana@example.com")

	w, resp := s.do(http.MethodPost, "/api/usuario", gin.H{"nome": "Bia", "email": "bia@example.com", "senha": strings.Repeat("x", 80)}, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("senha", resp.Error.Details["campo"])

	w, _ = s.do(http.MethodPost, "/api/auth/recuperar-senha", gin.H{"email": "ana@example.com"}, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Len(s.mailer.sent, 1)
	body := s.mailer.sent[0].Body
	tok := strings.Fields(body[strings.Index(body, "token=")+len("token="):])[0]

	w, resp = s.do(http.MethodPost, "/api/auth/redefinir-senha", gin.H{"token": tok, "senha": strings.Repeat("x", 80)}, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("senha", resp.Error.Details["campo"])

	w, _ = s.do(http.MethodPost, "/api/auth/redefinir-senha", gin.H{"token": tok, "senha": "nova-senha"}, "")
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(s.login("ana@example.com", "nova-senha"))
}

func (s *APITestSuite) TestCollectionRoutes_TrailingSlash() {
	w, _ := s.do(http.MethodPost, "/api/usuario/", gin.H{"usuario": gin.H{"nome": "Ana", "email": "ana@example.com", "senha": "segredo123"}}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	tok := s.login("ana@example.com", "segredo123")

	w, _ = s.do(http.MethodPost, "/api/projeto/", gin.H{"projeto": gin.H{"nome": "Portal"}}, tok)
	s.Equal(http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/api/tarefa/", gin.H{"tarefa": gin.H{"titulo": "Revisar"}}, tok)
	s.Equal(http.StatusCreated, w.Code, w.Body.String())

	admin := s.admin()
	for _, path := range []string{"/api/usuario/", "/api/projeto/", "/api/tarefa/"} {
		w, _ = s.do(http.MethodGet, path, nil, admin)
		s.Equal(http.StatusOK, w.Code, path)
	}
}

func (s *APITestSuite) TestHealth() {
	w, resp := s.do(http.MethodGet, "/api/health", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(map[string]interface{}{"database": "up", "redis": "up"}, s.data(resp))

	s.mr.SetError("LOADING")
	w, resp = s.do(http.MethodGet, "/api/health", nil, "")
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal("down", resp.Error.Details["redis"])
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func TestLoginRateLimited(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2}
	router := newRouter(cfg, Deps{DB: db, Store: resettoken.NewMemoryStore(), Mailer: &captureMailer{}})

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/usuario/login", strings.NewReader(`{"email":"x@y.com","senha":"z"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusUnauthorized || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestAppClose(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}
	mr := miniredis.RunT(t)
	a := &App{db: db, redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := database.Health(context.Background(), db); err == nil {
		t.Fatal("database still reachable after close")
	}
	if err := a.redis.Ping(context.Background()).Err(); err == nil {
		t.Fatal("redis client still usable after close")
	}
}

func jsonID(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
