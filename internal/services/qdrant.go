package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
)

// embeddingSize matches Gemini's text-embedding-004 output.
const embeddingSize = 768

// CandidateIndex stores one profile vector per application.
type CandidateIndex interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, point IndexPoint) error
	SimilarTo(ctx context.Context, applicationID uuid.UUID, limit int) ([]IndexHit, error)
}

type IndexPoint struct {
	ApplicationID  uuid.UUID
	CandidateType  string
	Recommendation string
	Profile        string
	Embedding      []float32
}

type IndexHit struct {
	ApplicationID uuid.UUID
	Score         float32
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantIndex(urlStr, apiKey, collectionName string) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port unless the URL names one.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingSize,
	}, nil
}

func (q *qdrantIndex) EnsureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", q.collectionName).Msg("Qdrant collection created")
	return nil
}

// Upsert keys the point by application id, so re-indexing replaces it.
func (q *qdrantIndex) Upsert(ctx context.Context, point IndexPoint) error {
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(point.ApplicationID.String()),
				Vectors: qdrant.NewVectors(point.Embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"application_id": point.ApplicationID.String(),
					"candidate_type": point.CandidateType,
					"recommendation": point.Recommendation,
					"profile":        point.Profile,
				}),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SimilarTo searches with the stored vector of applicationID and leaves that
// application out of the results.
func (q *qdrantIndex) SimilarTo(ctx context.Context, applicationID uuid.UUID, limit int) ([]IndexHit, error) {
	id := qdrant.NewID(applicationID.String())

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQueryID(id),
		Filter: &qdrant.Filter{
			MustNot: []*qdrant.Condition{qdrant.NewHasID(id)},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]IndexHit, 0, len(points))
	for _, point := range points {
		value, ok := point.Payload["application_id"]
		if !ok {
			continue
		}
		str, ok := value.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}
		appID, err := uuid.Parse(str.StringValue)
		if err != nil {
			continue
		}

		hits = append(hits, IndexHit{ApplicationID: appID, Score: point.Score})
	}

	return hits, nil
}
