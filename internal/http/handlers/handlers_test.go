package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/domain/models"
	"storefront/internal/http/middleware"
	"storefront/internal/media"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type fakeMedia struct {
	uploads   int
	destroyed []string
	url       string
}

func (f *fakeMedia) Upload(ctx context.Context, r io.Reader, folder string) (media.UploadResult, error) {
	f.uploads++
	return media.UploadResult{URL: f.url, PublicID: folder + "/fake"}, nil
}

func (f *fakeMedia) Destroy(ctx context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

var testPrincipal = models.User{ID: 7, Username: "maria", Email: "maria@example.com", IsActive: true}

func withPrincipal(c *gin.Context) {
	middleware.SetPrincipal(c, testPrincipal)
	c.Next()
}

func setupDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		db.Close()
	})
	return mock
}

func multipartBody(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if withImage {
		fw, err := w.CreateFormFile("image", "test.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write([]byte("not-really-a-png")); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestCreateBanner_MissingImage(t *testing.T) {
	setupDB(t)
	Media = &fakeMedia{}

	r := gin.New()
	r.POST("/api/banner", withPrincipal, CreateBanner)

	body, contentType := multipartBody(t, map[string]string{"title": "Sale"}, false)
	req := httptest.NewRequest(http.MethodPost, "/api/banner", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}

func TestCreateBanner_UploadsAndPersists(t *testing.T) {
	mock := setupDB(t)
	fake := &fakeMedia{url: "https://cdn.fake/banners/new.png"}
	Media = fake

	mock.ExpectExec(`INSERT INTO banners`).
		WithArgs("Sale", "Big spring sale", 19.99, "#F7F6F2", "https://cdn.fake/banners/new.png", int64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := gin.New()
	r.POST("/api/banner", withPrincipal, CreateBanner)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Sale",
		"description": "Big spring sale",
		"price":       "19.99",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/api/banner", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
	if fake.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", fake.uploads)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetBannersPaginate_SearchEnvelope(t *testing.T) {
	mock := setupDB(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM banners WHERE`).
		WithArgs("%19.99%", "%19.99%", 19.99).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .+ FROM banners WHERE .+ ORDER BY created_at DESC LIMIT \? OFFSET \?`).
		WithArgs("%19.99%", "%19.99%", 19.99, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "price", "background", "image", "user_id", "created_at", "updated_at"}).
			AddRow(1, "Sale", "Big spring sale", 19.99, "#F7F6F2", "https://cdn.fake/banners/new.png", 7, now, now))

	r := gin.New()
	r.GET("/api/banner/paginate", GetBannersPaginate)

	req := httptest.NewRequest(http.MethodGet, "/api/banner/paginate?search=19.99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data        []models.Banner `json:"data"`
		TotalDocs   int             `json:"totalDocs"`
		TotalPages  int             `json:"totalPages"`
		Page        int             `json:"page"`
		HasNextPage bool            `json:"hasNextPage"`
		HasPrevPage bool            `json:"hasPrevPage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.TotalDocs != 1 || len(envelope.Data) != 1 {
		t.Fatalf("envelope wrong: %+v", envelope)
	}
	if envelope.Data[0].Title != "Sale" {
		t.Fatalf("unexpected record: %+v", envelope.Data[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateProducto_ReplacesImageOnce(t *testing.T) {
	mock := setupDB(t)
	fake := &fakeMedia{url: "https://cdn.fake/productos/new.png"}
	Media = fake
	now := time.Now()

	mock.ExpectQuery(`SELECT id, description, price, stock, image, user_id, created_at, updated_at FROM productos WHERE id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "price", "stock", "image", "user_id", "created_at", "updated_at"}).
			AddRow(1, "Old desc", 10.5, 3, "https://res.cloudinary.com/demo/image/upload/v1/productos/old-img.png", 7, now, now))
	mock.ExpectExec(`UPDATE productos`).
		WithArgs("Old desc", 10.5, 3, "https://cdn.fake/productos/new.png", int64(7), sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := gin.New()
	r.PUT("/api/producto/:id", withPrincipal, UpdateProducto)

	body, contentType := multipartBody(t, nil, true)
	req := httptest.NewRequest(http.MethodPut, "/api/producto/1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if fake.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", fake.uploads)
	}
	if len(fake.destroyed) != 1 || fake.destroyed[0] != "productos/old-img" {
		t.Fatalf("old image not released exactly once: %v", fake.destroyed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	mock := setupDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery(`SELECT password_hash FROM users WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"password_hash"}).AddRow(string(hash)))

	r := gin.New()
	r.PUT("/api/user/changePassword", withPrincipal, ChangePassword)

	req := httptest.NewRequest(http.MethodPut, "/api/user/changePassword",
		strings.NewReader(`{"old_password":"wrong","password":"brand-new"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", w.Code, w.Body.String())
	}
	// No UPDATE expectation was registered: the stored hash must stay untouched.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestChangePassword_Success(t *testing.T) {
	mock := setupDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery(`SELECT password_hash FROM users WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"password_hash"}).AddRow(string(hash)))
	mock.ExpectExec(`UPDATE users SET password_hash = \?, updated_at = \? WHERE id = \?`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := gin.New()
	r.PUT("/api/user/changePassword", withPrincipal, ChangePassword)

	req := httptest.NewRequest(http.MethodPut, "/api/user/changePassword",
		strings.NewReader(`{"old_password":"correct-horse","password":"brand-new"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLogin_ReturnsVerifiableToken(t *testing.T) {
	mock := setupDB(t)
	config.Loaded.JWTSecret = "handlers-test-secret"
	config.Loaded.JWTTTL = time.Hour
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery(`SELECT id, username, email, is_active, created_at, updated_at, password_hash\s+FROM users\s+WHERE username = \?`).
		WithArgs("maria").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_active", "created_at", "updated_at", "password_hash"}).
			AddRow(7, "maria", "maria@example.com", true, now, now, string(hash)))

	r := gin.New()
	r.POST("/api/user/login", Login)

	req := httptest.NewRequest(http.MethodPost, "/api/user/login",
		strings.NewReader(`{"username":"maria","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	id, err := auth.Verify([]byte("handlers-test-secret"), w.Body.String())
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if id != 7 {
		t.Fatalf("token subject = %d, want 7", id)
	}
}

func TestLogin_UnknownUserAndBadPasswordAnswerAlike(t *testing.T) {
	mock := setupDB(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, username, email, is_active, created_at, updated_at, password_hash\s+FROM users\s+WHERE username = \?`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	r := gin.New()
	r.POST("/api/user/login", Login)

	req := httptest.NewRequest(http.MethodPost, "/api/user/login",
		strings.NewReader(`{"username":"ghost","password":"whatever"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: status = %d, want 401", w.Code)
	}
	unknownBody := w.Body.String()

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery(`SELECT id, username, email, is_active, created_at, updated_at, password_hash\s+FROM users\s+WHERE username = \?`).
		WithArgs("maria").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_active", "created_at", "updated_at", "password_hash"}).
			AddRow(7, "maria", "maria@example.com", true, now, now, string(hash)))

	req = httptest.NewRequest(http.MethodPost, "/api/user/login",
		strings.NewReader(`{"username":"maria","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status = %d, want 401", w.Code)
	}
	if w.Body.String() != unknownBody {
		t.Fatalf("responses differ, leaking which usernames exist: %q vs %q", unknownBody, w.Body.String())
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	mock := setupDB(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE username = \? AND id <> \?`).
		WithArgs("maria", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	r := gin.New()
	r.POST("/api/user", withPrincipal, CreateUser)

	req := httptest.NewRequest(http.MethodPost, "/api/user",
		strings.NewReader(`{"username":"maria","email":"m@example.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", w.Code, w.Body.String())
	}
}

func TestToggleUserActive(t *testing.T) {
	mock := setupDB(t)
	now := time.Now()

	userCols := []string{"id", "username", "email", "is_active", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT id, username, email, is_active, created_at, updated_at FROM users WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "jon", "jon@example.com", true, now, now))
	mock.ExpectExec(`UPDATE users SET is_active = \?, updated_at = \? WHERE id = \?`).
		WithArgs(false, sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, username, email, is_active, created_at, updated_at FROM users WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "jon", "jon@example.com", false, now, now))

	r := gin.New()
	r.DELETE("/api/user/:userId", withPrincipal, ToggleUserActive)

	req := httptest.NewRequest(http.MethodDelete, "/api/user/3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.User.IsActive {
		t.Fatalf("expected deactivated user in response: %+v", resp.User)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
