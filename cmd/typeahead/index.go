package main

import (
	"strings"

	memdb "github.com/hashicorp/go-memdb"
)

const (
	wordTable = "word"
	wordIndex = "id"
)

type wordEntry struct {
	Word string
}

// index answers prefix queries over a fixed word list. Lookups are
// case-insensitive and return words in lexical order.
type index struct {
	db *memdb.MemDB
}

func newIndex(words []string) (*index, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			wordTable: {
				Name: wordTable,
				Indexes: map[string]*memdb.IndexSchema{
					wordIndex: {
						Name:    wordIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Word", Lowercase: true},
					},
				},
			},
		},
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}

	txn := db.Txn(true)
	defer txn.Abort()
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if err := txn.Insert(wordTable, &wordEntry{Word: w}); err != nil {
			return nil, err
		}
	}
	txn.Commit()

	return &index{db: db}, nil
}

// Prefix returns up to limit words starting with prefix.
func (i *index) Prefix(prefix string, limit int) ([]string, error) {
	txn := i.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(wordTable, wordIndex+"_prefix", prefix)
	if err != nil {
		return nil, err
	}

	words := make([]string, 0, limit)
	for obj := it.Next(); obj != nil && len(words) < limit; obj = it.Next() {
		words = append(words, obj.(*wordEntry).Word)
	}
	return words, nil
}

func (i *index) Len() (int, error) {
	txn := i.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(wordTable, wordIndex)
	if err != nil {
		return 0, err
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n, nil
}
