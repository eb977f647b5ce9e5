package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/studiogate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studiogate/internal/common"
)

// MetadataKey names the client state entry holding the session.
const MetadataKey = "auth"

// MetadataPersister keeps the session as JSON in the client state table.
type MetadataPersister struct {
	repo metadata.Repository
}

func NewMetadataPersister(repo metadata.Repository) *MetadataPersister {
	return &MetadataPersister{repo: repo}
}

func (p *MetadataPersister) Load(ctx context.Context) (*State, error) {
	data, err := p.repo.Get(ctx, MetadataKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptStore, err)
	}
	return &s, nil
}

func (p *MetadataPersister) Save(ctx context.Context, s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.repo.Put(ctx, MetadataKey, data)
}

func (p *MetadataPersister) Clear(ctx context.Context) error {
	return p.repo.Delete(ctx, MetadataKey)
}
