package main

import (
	"fmt"

	"github.com/aqua777/go-ragpipe/config"
	"github.com/aqua777/go-ragpipe/confidence"
	"github.com/aqua777/go-ragpipe/embedding"
	"github.com/aqua777/go-ragpipe/llm"
	"github.com/aqua777/go-ragpipe/pipeline"
	"github.com/aqua777/go-ragpipe/vectorstore"
	"github.com/aqua777/go-ragpipe/vectorstore/chromem"
	"github.com/aqua777/go-ragpipe/vectorstore/pinecone"
)

const chromemCollection = "knowledge-base"

// deps holds the wired collaborators shared by the subcommands.
type deps struct {
	cfg      *config.Config
	embedder *embedding.OpenAIEmbedding
	store    vectorstore.VectorStore
	pipeline *pipeline.Pipeline
}

func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	embedder := embedding.NewOpenAIEmbedding(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	model := llm.NewOpenAILLM("", cfg.OpenAI.ChatModel, cfg.OpenAI.APIKey)

	calibrator := confidence.New(
		confidence.WithScoreThreshold(cfg.Pipeline.ScoreThreshold),
		confidence.WithExpectedRange(cfg.Pipeline.RangeMin, cfg.Pipeline.RangeMax),
	)

	pipe := pipeline.New(embedder, store, model,
		pipeline.WithTopK(cfg.Pipeline.TopK),
		pipeline.WithRerank(cfg.Pipeline.Rerank),
		pipeline.WithTemperature(float32(cfg.Pipeline.Temperature)),
		pipeline.WithMaxTokens(cfg.Pipeline.MaxTokens),
		pipeline.WithAnswerLanguage(cfg.Pipeline.AnswerLanguage),
		pipeline.WithCalibrator(calibrator),
	)

	return &deps{
		cfg:      cfg,
		embedder: embedder,
		store:    store,
		pipeline: pipe,
	}, nil
}

func buildStore(cfg *config.Config) (vectorstore.VectorStore, error) {
	switch cfg.Store.Backend {
	case config.BackendPinecone:
		return pinecone.NewClient(pinecone.Config{
			APIKey:    cfg.Pinecone.APIKey,
			IndexHost: cfg.Pinecone.IndexHost,
			Namespace: cfg.Pinecone.Namespace,
		})
	case config.BackendChromem:
		return chromem.NewStore(cfg.Store.ChromemPath, chromemCollection)
	default:
		return nil, fmt.Errorf("unknown vector store backend %q", cfg.Store.Backend)
	}
}
