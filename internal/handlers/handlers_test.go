package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
	"github.com/justttkumkum/talent-scout-ai/internal/repositories"
	"github.com/justttkumkum/talent-scout-ai/internal/services"
)

type memoryRepo struct {
	apps []models.Application
}

func (r *memoryRepo) Create(ctx context.Context, app *models.Application) error {
	r.apps = append(r.apps, *app)
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	for i := range r.apps {
		if r.apps[i].ID == id {
			return &r.apps[i], nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *memoryRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Application, error) {
	return nil, nil
}

func (r *memoryRepo) FindAll(ctx context.Context) ([]models.Application, error) {
	apps := make([]models.Application, 0, len(r.apps))
	for i := len(r.apps) - 1; i >= 0; i-- {
		apps = append(apps, r.apps[i])
	}
	return apps, nil
}

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Complete(ctx context.Context, system, user string) (string, error) {
	s.calls++
	return s.reply, s.err
}

const analysisReply = "```json\n" + `{"candidateType": "fullstack", "technicalSkill": 8, "experienceRelevance": 7, "communication": 8, "educationQuality": 7, "educationCategory": "CBSE", "strengths": "Strong.", "weaknesses": "Testing."}` + "\n```"

type testApp struct {
	app       *fiber.App
	repo      *memoryRepo
	llm       *stubLLM
	uploadDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	repo := &memoryRepo{}
	llm := &stubLLM{reply: analysisReply}
	uploadDir := t.TempDir()
	storage := services.NewLocalStorage(uploadDir, "resumes", "http://localhost:3000/files")
	resolver := services.NewResumeResolver(storage, services.NewDocumentParser(), 1<<20)
	validator := services.NewRequestValidator()
	appService := services.NewApplicationService(repo, llm, validator, nil, nil, nil)

	app := fiber.New()
	app.Use(CORS())
	RegisterRoutes(app, Handlers{
		Application: NewApplicationHandler(appService, resolver, validator, 1<<20),
		Upload:      NewUploadHandler(resolver, 1<<20),
		Meta:        NewMetaHandler(nil),
	})

	return &testApp{app: app, repo: repo, llm: llm, uploadDir: uploadDir}
}

func (ta *testApp) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func jsonRequest(t *testing.T, path string, payload any) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleProcess(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, jsonRequest(t, "/functions/v1/process-application", map[string]any{
		"name":      "Jane Doe",
		"email":     "jane@x.com",
		"techStack": []string{"React", "Node.js"},
		"resumeUrl": "https://example.com/r.pdf",
	}))

	require.Equal(t, http.StatusOK, status, string(body))

	var resp models.ProcessApplicationResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.Recommended, resp.Application.Recommendation)
	assert.Equal(t, models.Recommended, resp.Analysis.Recommendation)
	assert.Len(t, ta.repo.apps, 1)
}

func TestHandleProcessErrors(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		llmErr     error
		payload    map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "Missing resume",
			payload:    map[string]any{"name": "Jane Doe", "email": "jane@x.com", "techStack": []string{"React"}},
			wantStatus: http.StatusInternalServerError,
			wantError:  "please provide either a resume file or URL",
		},
		{
			name:       "Name too short",
			payload:    map[string]any{"name": "J", "email": "jane@x.com", "techStack": []string{"React"}, "resumeUrl": "https://example.com/r.pdf"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Name must be at least 2 characters",
		},
		{
			name:       "Invalid model output",
			reply:      "not json at all",
			payload:    map[string]any{"name": "Jane Doe", "email": "jane@x.com", "techStack": []string{"React"}, "resumeUrl": "https://example.com/r.pdf"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI returned invalid JSON",
		},
		{
			name:       "Upstream failure",
			llmErr:     &services.AnalysisError{StatusCode: 402},
			payload:    map[string]any{"name": "Jane Doe", "email": "jane@x.com", "techStack": []string{"React"}, "resumeUrl": "https://example.com/r.pdf"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI analysis failed: 402",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			ta.llm.reply = tt.reply
			ta.llm.err = tt.llmErr

			status, body := ta.do(t, jsonRequest(t, "/functions/v1/process-application", tt.payload))

			assert.Equal(t, tt.wantStatus, status)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Empty(t, ta.repo.apps)
		})
	}
}

func TestHandleProcessMalformedBody(t *testing.T) {
	tests := []struct {
		path       string
		wantStatus int
	}{
		{path: "/functions/v1/process-application", wantStatus: http.StatusInternalServerError},
		{path: "/api/v1/process-application", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ta := newTestApp(t)

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader("{"))
			req.Header.Set("Content-Type", "application/json")
			status, body := ta.do(t, req)

			assert.Equal(t, tt.wantStatus, status)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, "Invalid request body", resp.Error)
			assert.Equal(t, 0, ta.llm.calls)
		})
	}
}

func TestHandleProcessAPIKeepsClientErrors(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, jsonRequest(t, "/api/v1/process-application", map[string]any{
		"name":      "J",
		"email":     "jane@x.com",
		"techStack": []string{"React"},
		"resumeUrl": "https://example.com/r.pdf",
	}))

	assert.Equal(t, http.StatusBadRequest, status)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "name", resp.Field)
	assert.Equal(t, 0, ta.llm.calls)
}

func TestOptionsRequests(t *testing.T) {
	tests := []struct {
		name      string
		preflight bool
	}{
		{name: "Preflight", preflight: true},
		{name: "Plain OPTIONS", preflight: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)

			req := httptest.NewRequest(http.MethodOptions, "/functions/v1/process-application", nil)
			req.Header.Set("Origin", "https://app.example.com")
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}

			resp, err := ta.app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
			assert.Empty(t, body)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, 0, ta.llm.calls)
		})
	}
}

func multipartRequest(t *testing.T, path string, fields map[string][]string, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, writer.WriteField(key, v))
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleSubmitWithResumeURL(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, multipartRequest(t, "/api/v1/applications", map[string][]string{
		"name":      {"Jane Doe"},
		"email":     {"jane@x.com"},
		"techStack": {"React, Node.js", "Docker"},
		"resumeUrl": {"https://example.com/r.pdf"},
	}, "", nil))

	require.Equal(t, http.StatusOK, status, string(body))
	require.Len(t, ta.repo.apps, 1)
	assert.Equal(t, []string{"React", "Node.js", "Docker"}, []string(ta.repo.apps[0].TechStack))
	assert.Equal(t, "https://example.com/r.pdf", ta.repo.apps[0].ResumeURL)
}

func TestHandleSubmitWithoutResume(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, multipartRequest(t, "/api/v1/applications", map[string][]string{
		"name":      {"Jane Doe"},
		"email":     {"jane@x.com"},
		"techStack": {"React"},
	}, "", nil))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "please provide either a resume file or URL")
	assert.Equal(t, 0, ta.llm.calls)
	assert.Empty(t, ta.repo.apps)
}

func TestHandleSubmitInvalidFormStoresNothing(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, multipartRequest(t, "/api/v1/applications", map[string][]string{
		"name":      {"J"},
		"email":     {"jane@x.com"},
		"techStack": {"React"},
	}, "cv.pdf", []byte("%PDF-1.4 resume")))

	assert.Equal(t, http.StatusBadRequest, status)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "name", resp.Field)
	assert.Equal(t, 0, ta.llm.calls)
	assert.Empty(t, ta.repo.apps)

	entries, err := os.ReadDir(filepath.Join(ta.uploadDir, "resumes"))
	if !os.IsNotExist(err) {
		require.NoError(t, err)
	}
	assert.Empty(t, entries)
}

func TestHandleUploadRejectsUnsupportedType(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, multipartRequest(t, "/api/v1/resumes", nil, "cv.txt", []byte("hello")))

	assert.Equal(t, http.StatusBadRequest, status)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "resume", resp.Field)
}

func TestHandleUploadLegacyDoc(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, multipartRequest(t, "/api/v1/resumes", nil, "cv.doc", []byte("legacy word file")))

	require.Equal(t, http.StatusCreated, status, string(body))
	var resp models.ResumeUploadResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, strings.HasPrefix(resp.ResumeURL, "http://localhost:3000/files/resumes/"))
	assert.True(t, strings.HasSuffix(resp.ResumeURL, ".doc"))
	assert.Equal(t, "cv.doc", resp.OriginalName)
}

func TestHandleListAndGet(t *testing.T) {
	ta := newTestApp(t)
	first := models.Application{ID: uuid.New(), Name: "First", Recommendation: models.NotRecommended}
	second := models.Application{ID: uuid.New(), Name: "Second", Recommendation: "Pending"}
	ta.repo.apps = []models.Application{first, second}

	status, body := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil))
	require.Equal(t, http.StatusOK, status)

	var list models.ApplicationListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "Second", list.Applications[0].Name)
	assert.Equal(t, models.Badge{Variant: "secondary", Icon: "clock"}, list.Applications[0].Badge)
	assert.Equal(t, models.Badge{Variant: "destructive", Icon: "x-circle"}, list.Applications[1].Badge)

	status, _ = ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/applications/"+first.ID.String(), nil))
	assert.Equal(t, http.StatusOK, status)

	status, _ = ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/applications/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/applications/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleSimilarWithoutIndex(t *testing.T) {
	ta := newTestApp(t)

	status, _ := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/applications/"+uuid.NewString()+"/similar", nil))
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/applications/"+uuid.NewString()+"/similar?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleExport(t *testing.T) {
	ta := newTestApp(t)
	ta.repo.apps = []models.Application{{ID: uuid.New(), Name: "Jane Doe"}}

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/applications/export", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "applications-")
}

func TestHandleMeta(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/tech-stack", nil))
	require.Equal(t, http.StatusOK, status)

	var vocab struct {
		TechStack []string `json:"techStack"`
	}
	require.NoError(t, json.Unmarshal(body, &vocab))
	assert.Len(t, vocab.TechStack, 28)

	status, _ = ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, status)
}
