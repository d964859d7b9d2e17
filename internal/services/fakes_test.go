package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
	"github.com/justttkumkum/talent-scout-ai/internal/repositories"
)

type fakeRepo struct {
	mu        sync.Mutex
	apps      []models.Application
	createErr error
}

func (r *fakeRepo) Create(ctx context.Context, app *models.Application) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app.CreatedAt = time.Now()
	r.apps = append(r.apps, *app)
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.apps {
		if r.apps[i].ID == id {
			app := r.apps[i]
			return &app, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *fakeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	for _, id := range ids {
		if app, err := r.FindByID(ctx, id); err == nil {
			apps = append(apps, *app)
		}
	}
	return apps, nil
}

func (r *fakeRepo) FindAll(ctx context.Context) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps := make([]models.Application, 0, len(r.apps))
	for i := len(r.apps) - 1; i >= 0; i-- {
		apps = append(apps, r.apps[i])
	}
	return apps, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

type fakeLLM struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.reply, f.err
}

type fakeWebhook struct {
	err      error
	calls    int
	lastURL  string
	lastBody models.WebhookPayload
}

func (f *fakeWebhook) Notify(ctx context.Context, url string, payload models.WebhookPayload) error {
	f.calls++
	f.lastURL = url
	f.lastBody = payload
	return f.err
}

type fakeQueue struct {
	ids []uuid.UUID
}

func (f *fakeQueue) Enqueue(id uuid.UUID) {
	f.ids = append(f.ids, id)
}

type fakeIndex struct {
	hits    []IndexHit
	err     error
	upserts []IndexPoint
}

func (f *fakeIndex) EnsureCollection(ctx context.Context) error { return nil }

func (f *fakeIndex) Upsert(ctx context.Context, point IndexPoint) error {
	f.upserts = append(f.upserts, point)
	return f.err
}

func (f *fakeIndex) SimilarTo(ctx context.Context, id uuid.UUID, limit int) ([]IndexHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > limit {
		return f.hits[:limit], nil
	}
	return f.hits, nil
}

type fakeEmbedder struct {
	err      error
	lastText string
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeStorage struct {
	err   error
	saved []string
	data  []byte
}

func (f *fakeStorage) SaveResume(ctx context.Context, originalName string, body io.Reader, size int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.data = data
	key := resumeKey("resumes", originalName)
	f.saved = append(f.saved, key)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) EnsureReady(ctx context.Context) error { return nil }

type fakeParser struct {
	err error
}

func (f *fakeParser) Supports(ext string) bool { return ext == ".pdf" || ext == ".docx" }

func (f *fakeParser) ExtractText(data []byte, ext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return string(data), nil
}

var errBoom = errors.New("boom")
