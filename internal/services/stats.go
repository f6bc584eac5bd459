package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PauloHFS/skystore/internal/cache"
	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/metrics"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

const (
	StatisticsKey  = "cached_statistics"
	randomSampleOf = 3
)

type StatProduct struct {
	ID         int64  `msgpack:"id"`
	Name       string `msgpack:"name"`
	Slug       string `msgpack:"slug"`
	PriceCents int64  `msgpack:"price_cents"`
	ImageURL   string `msgpack:"image_url"`
}

type StatPost struct {
	ID       int64  `msgpack:"id"`
	Title    string `msgpack:"title"`
	Slug     string `msgpack:"slug"`
	ImageURL string `msgpack:"image_url"`
}

// Statistics é o conteúdo da página inicial.
type Statistics struct {
	ProductCount int64         `msgpack:"product_count"`
	PostCount    int64         `msgpack:"post_count"`
	Products     []StatProduct `msgpack:"products"`
	Posts        []StatPost    `msgpack:"posts"`
}

// StatsService calcula as estatísticas e as guarda no cache na primeira
// falta. Requisições concorrentes podem calcular juntas; vale a última escrita.
type StatsService struct {
	pool  *db.DualPool
	store cache.Store
}

// NewStatsService aceita store nil para desligar o cache.
func NewStatsService(pool *db.DualPool, store cache.Store) *StatsService {
	if store == nil {
		store = cache.Nop{}
	}
	return &StatsService{pool: pool, store: store}
}

func (s *StatsService) Get(ctx context.Context) (Statistics, error) {
	raw, ok, err := s.store.Get(ctx, StatisticsKey)
	if err != nil {
		// cache fora do ar não derruba a página
		logging.AddToEvent(ctx, slog.String("cache_error", err.Error()))
	}
	if ok {
		var st Statistics
		if err := msgpack.Unmarshal(raw, &st); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return st, nil
		}
		logging.AddToEvent(ctx, slog.String("cache_error", "corrupt entry"))
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	st, err := s.compute(ctx)
	if err != nil {
		return Statistics{}, err
	}

	if encoded, err := msgpack.Marshal(st); err == nil {
		if err := s.store.Set(ctx, StatisticsKey, encoded); err != nil {
			logging.AddToEvent(ctx, slog.String("cache_error", err.Error()))
		}
	}
	return st, nil
}

func (s *StatsService) compute(ctx context.Context) (Statistics, error) {
	var st Statistics
	q := s.pool.Queries()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := q.CountPublishedProducts(gctx)
		st.ProductCount = n
		return err
	})
	g.Go(func() error {
		n, err := q.CountPublishedPosts(gctx)
		st.PostCount = n
		return err
	})
	g.Go(func() error {
		rows, err := q.RandomPublishedProducts(gctx, randomSampleOf)
		for _, r := range rows {
			st.Products = append(st.Products, StatProduct{
				ID:         r.ID,
				Name:       r.Name,
				Slug:       r.Slug,
				PriceCents: r.PriceCents,
				ImageURL:   r.ImageUrl.String,
			})
		}
		return err
	})
	g.Go(func() error {
		posts, err := q.RandomPublishedPosts(gctx, randomSampleOf)
		for _, p := range posts {
			st.Posts = append(st.Posts, StatPost{
				ID:       p.ID,
				Title:    p.Title,
				Slug:     p.Slug,
				ImageURL: p.ImageUrl.String,
			})
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return Statistics{}, fmt.Errorf("failed to compute statistics: %w", err)
	}
	return st, nil
}
