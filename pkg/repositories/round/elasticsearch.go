package round

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/royalmock/casino/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch decorator
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "casino",
	}
}

// ElasticsearchRepository decorates a base Repository and mirrors every
// settled round into an Elasticsearch index for analytics. Reads are served
// by the base repository; indexing failures are logged, never fatal, so a
// dead cluster cannot block settlement.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
}

// esRound is the indexed document shape
type esRound struct {
	RoundID     string    `json:"round_id"`
	UserID      string    `json:"user_id"`
	Game        string    `json:"game"`
	Stake       int64     `json:"stake"`
	Payout      int64     `json:"payout"`
	Net         int64     `json:"net"`
	Outcome     string    `json:"outcome"`
	Detail      string    `json:"detail,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewElasticsearchRepository creates the decorator around a base repository
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}
	if config.IndexPrefix == "" {
		config.IndexPrefix = "casino"
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{config.URL},
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating elasticsearch client: %w", err)
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    config.IndexPrefix + "_rounds",
	}

	if err := repo.initIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return repo, nil
}

// initIndex creates the rounds index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index})
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 404 {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"round_id": { "type": "keyword" },
				"user_id": { "type": "keyword" },
				"game": { "type": "keyword" },
				"stake": { "type": "long" },
				"payout": { "type": "long" },
				"net": { "type": "long" },
				"outcome": { "type": "keyword" },
				"detail": { "type": "text" },
				"completed_at": { "type": "date" }
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(mapping)),
	}
	createRes, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating index: %s", createRes.String())
	}

	log.Printf("Created Elasticsearch index %s", r.index)
	return nil
}

// SaveRound records a settled round in the base store and indexes it
func (r *ElasticsearchRepository) SaveRound(ctx context.Context, round *entities.Round) error {
	if err := r.baseRepo.SaveRound(ctx, round); err != nil {
		return err
	}

	doc := esRound{
		RoundID:     round.ID,
		UserID:      round.UserID,
		Game:        string(round.Game),
		Stake:       round.Stake,
		Payout:      round.Payout,
		Net:         round.Payout - round.Stake,
		Outcome:     string(round.Outcome),
		Detail:      round.Detail,
		CompletedAt: round.CompletedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		log.Printf("Error marshaling round %s for indexing: %v", round.ID, err)
		return nil
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(body),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(round.ID),
	)
	if err != nil {
		log.Printf("Error indexing round %s: %v", round.ID, err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("Elasticsearch rejected round %s: %s", round.ID, res.String())
	}
	return nil
}

// GetRecentRounds retrieves the most recent rounds for a user, newest first
func (r *ElasticsearchRepository) GetRecentRounds(ctx context.Context, userID string, limit int) ([]*entities.Round, error) {
	return r.baseRepo.GetRecentRounds(ctx, userID, limit)
}

// GetRecentRoundsByGame retrieves the most recent rounds for one game
func (r *ElasticsearchRepository) GetRecentRoundsByGame(ctx context.Context, userID string, game entities.GameName, limit int) ([]*entities.Round, error) {
	return r.baseRepo.GetRecentRoundsByGame(ctx, userID, game, limit)
}

// Refresh forces an index refresh so freshly indexed rounds become
// searchable. Meant to run from a scheduler task, not per save.
func (r *ElasticsearchRepository) Refresh(ctx context.Context) error {
	res, err := r.client.Indices.Refresh(
		r.client.Indices.Refresh.WithContext(ctx),
		r.client.Indices.Refresh.WithIndex(r.index),
	)
	if err != nil {
		return fmt.Errorf("error refreshing index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error refreshing index: %s", res.String())
	}
	return nil
}

// Close releases the base repository's resources
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
