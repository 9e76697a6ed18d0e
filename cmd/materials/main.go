// Command materials ingests course material chunks from a JSON file,
// embeds them and stores them for semantic search during grading.
//
// Usage: materials <file.json>
//
// The file holds an array of {title, content, module, type} objects.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/koreroai/server/adapters/postgres"
	"github.com/koreroai/server/domain/entities"
	"github.com/koreroai/server/internal/config"
)

const embeddingModel = "text-embedding-004"

type materialFile []struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Module  string `json:"module"`
	Type    string `json:"type"`
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: materials <file.json>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.DatabaseDSN == "" {
		logger.Fatal("DATABASE_DSN is required")
	}
	if cfg.GeminiKey == "" {
		logger.Fatal("GEMINI_API_KEY is required")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Fatal("Failed to read materials file", zap.Error(err))
	}
	var materials materialFile
	if err := json.Unmarshal(data, &materials); err != nil {
		logger.Fatal("Failed to parse materials file", zap.Error(err))
	}

	ctx := context.Background()

	db, err := postgres.NewClient(cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	repo := postgres.NewMaterialRepository(db)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Fatal("Failed to create Gemini client", zap.Error(err))
	}

	for i, m := range materials {
		resp, err := client.Models.EmbedContent(ctx, embeddingModel,
			[]*genai.Content{genai.NewContentFromText(m.Content, genai.RoleUser)}, nil)
		if err != nil {
			logger.Fatal("Failed to embed material",
				zap.Int("index", i),
				zap.String("title", m.Title),
				zap.Error(err))
		}
		if len(resp.Embeddings) == 0 {
			logger.Fatal("Empty embedding response", zap.String("title", m.Title))
		}

		err = repo.Create(ctx, &entities.Material{
			Title:   m.Title,
			Content: m.Content,
			Module:  m.Module,
			Type:    m.Type,
		}, resp.Embeddings[0].Values)
		if err != nil {
			logger.Fatal("Failed to store material",
				zap.String("title", m.Title),
				zap.Error(err))
		}

		logger.Info("Stored material",
			zap.String("title", m.Title),
			zap.String("module", m.Module))
	}

	logger.Info("Ingestion complete", zap.Int("materials", len(materials)))
}
