package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/albumctl/internal/models"
)

var _ list.Item = collectionItem{}

// collectionItem wraps [models.CollectionSummary] to implement [list.Item].
type collectionItem struct {
	collection models.CollectionSummary
}

func (i collectionItem) FilterValue() string { return i.collection.Name }
func (i collectionItem) Title() string       { return i.collection.Name }
func (i collectionItem) Description() string { return i.collection.ID }
