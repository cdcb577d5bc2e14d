package qdrantDB

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

const (
	payloadDocumentId = "document_id"
	payloadChunkId    = "chunk_id"
	payloadText       = "text"
	payloadPage       = "page"
	payloadBBox       = "bbox"
)

type Options struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	PoolSize   int
	Collection string
	Dimension  int
}

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	logger     *logger_i.Logger
}

// NewQdrantIndex connects and makes sure the collection and its document_id payload
// index exist.
func NewQdrantIndex(ctx context.Context, opts Options) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")
	if opts.Collection == "" {
		return nil, errors.New("empty collection name")
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = config.QdrantPoolSize
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     opts.Host,
		Port:     opts.Port,
		APIKey:   opts.APIKey,
		UseTLS:   opts.UseTLS,
		PoolSize: uint(opts.PoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}

	db := &ClientHolder{QObj: client, collection: opts.Collection, logger: logger}
	if err := db.createCollection(ctx, uint64(opts.Dimension)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not create collection %s: %w", opts.Collection, err)
	}
	logger.Info("Qdrant index ready", "collection", opts.Collection, "host", opts.Host, "port", opts.Port)
	return db, nil
}

func (db *ClientHolder) Close() error {
	db.logger.Info("Shutting down Qdrant")
	return db.QObj.Close()
}

func (db *ClientHolder) createCollection(ctx context.Context, dimension uint64) error {
	exists, err := db.QObj.CollectionExists(ctx, db.collection)
	if err != nil {
		return err
	}
	if !exists {
		err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: db.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dimension,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return err
		}
	}

	// keyword index so document filters and deletes do not scan the collection
	_, err = db.QObj.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: db.collection,
		FieldName:      payloadDocumentId,
		FieldType:      qdrant.PtrOf(qdrant.FieldType_FieldTypeKeyword),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		db.logger.Warn("could not create document_id payload index", "error", err)
	}
	return nil
}

func (db *ClientHolder) Upsert(ctx context.Context, records []corpusModel.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, r := range records {
		payload, err := qdrant.TryValueMap(toPayload(r))
		if err != nil {
			return fmt.Errorf("qdrant payload for %s: %w", r.Id, err)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(r.Id),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: payload,
		})
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Query(ctx context.Context, vector []float32, k int, filter *corpusModel.DocumentFilter) ([]corpusModel.RetrievalHit, error) {
	log := db.logger.WithTrace(ctx, config.TRACE_ID_KEY)
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         buildFilter(filter),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	hits := make([]corpusModel.RetrievalHit, 0, len(result))
	for _, point := range result {
		hits = append(hits, fromPayload(point.GetPayload(), float64(point.GetScore())))
	}
	log.Debug("Found matches", "count", len(hits))
	return hits, nil
}

func (db *ClientHolder) DeleteDocument(ctx context.Context, documentId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchKeyword(payloadDocumentId, documentId)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete of document %s failed: %w", documentId, err)
	}
	return nil
}

func buildFilter(filter *corpusModel.DocumentFilter) *qdrant.Filter {
	ids := vectorDB.FilterIds(filter)
	if ids == nil {
		return nil
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatchKeywords(payloadDocumentId, ids...)},
	}
}

func toPayload(r corpusModel.IndexRecord) map[string]any {
	payload := map[string]any{
		payloadDocumentId: r.DocumentId,
		payloadChunkId:    r.ChunkId,
		payloadText:       r.Text,
	}
	if r.Page != nil {
		payload[payloadPage] = int64(*r.Page)
	}
	if bbox, ok := vectorDB.EncodeBBox(r.BBox); ok {
		payload[payloadBBox] = bbox
	}
	return payload
}

// fromPayload turns a scored point into a hit. Qdrant reports cosine similarity, the
// rest of the pipeline works with distance.
func fromPayload(payload map[string]*qdrant.Value, score float64) corpusModel.RetrievalHit {
	hit := corpusModel.RetrievalHit{
		ChunkId:    payload[payloadChunkId].GetStringValue(),
		DocumentId: payload[payloadDocumentId].GetStringValue(),
		Text:       payload[payloadText].GetStringValue(),
		Distance:   1 - score,
	}
	if v, ok := payload[payloadPage]; ok {
		if _, isInt := v.GetKind().(*qdrant.Value_IntegerValue); isInt {
			page := int(v.GetIntegerValue())
			hit.Page = &page
		}
	}
	if v, ok := payload[payloadBBox]; ok {
		hit.BBox = vectorDB.DecodeBBox(v.GetStringValue())
	}
	return hit
}
