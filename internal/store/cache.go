package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

var bucketProjects = []byte("projects")

// Cache is the local project store used when the studio's persistence
// endpoints are unreachable: optimistic mutations are parked here and
// reconciled on the next successful poll or retry.
type Cache struct {
	db *bolt.DB
}

func OpenCache(path string) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketProjects)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) SaveProject(ctx context.Context, project *types.Project) error {
	if project == nil || strings.TrimSpace(project.ID) == "" {
		return errors.New("project with id is required")
	}
	clone := types.CloneProject(project)
	clone.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(clone)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProjects).Put([]byte(clone.ID), raw)
	})
}

func (c *Cache) LoadProject(ctx context.Context, id string) (*types.Project, bool, error) {
	if strings.TrimSpace(id) == "" {
		return nil, false, errors.New("project id is required")
	}
	var (
		out *types.Project
		ok  bool
	)
	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketProjects).Get([]byte(id))
		if len(raw) == 0 {
			return nil
		}
		var project types.Project
		if err := json.Unmarshal(raw, &project); err != nil {
			return err
		}
		out = types.CloneProject(&project)
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

func (c *Cache) ListProjects(ctx context.Context) ([]*types.Project, error) {
	out := make([]*types.Project, 0)
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProjects).ForEach(func(_, v []byte) error {
			var project types.Project
			if err := json.Unmarshal(v, &project); err != nil {
				return err
			}
			out = append(out, types.CloneProject(&project))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (c *Cache) DeleteProject(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("project id is required")
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProjects).Delete([]byte(id))
	})
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
