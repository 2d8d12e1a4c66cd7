package orm

import (
	"context"
	"fmt"
)

// JoinTable describes a many-to-many association table. Source holds the
// key of the side being loaded and Target the key of the related side.
type JoinTable struct {
	Name   string
	Source string
	Target string
}

// Reverse returns jt seen from the other side of the association.
func (jt JoinTable) Reverse() JoinTable {
	return JoinTable{Name: jt.Name, Source: jt.Target, Target: jt.Source}
}

// Links is the set of (source, target) rows read from a JoinTable.
type Links[K comparable] struct {
	bySource map[K][]K
	targets  []K
}

// Of returns the targets linked to source, ordered by target key.
func (l Links[K]) Of(source K) []K { return l.bySource[source] }

// Targets returns every distinct target key in first-seen order.
func (l Links[K]) Targets() []K { return l.targets }

// LoadLinks reads the rows of jt whose source key is in sources.
// No statement runs when sources is empty.
func LoadLinks[K comparable](ctx context.Context, db Querier, jt JoinTable, sources []K) (Links[K], error) {
	links := Links[K]{bySource: make(map[K][]K)}
	if len(sources) == 0 {
		return links, nil
	}

	d := db.dialect()
	q := rebind(d, fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IN (%s) ORDER BY %s",
		d.QuoteIdent(jt.Source), d.QuoteIdent(jt.Target), d.QuoteIdent(jt.Name),
		d.QuoteIdent(jt.Source), placeholders(len(sources)), d.QuoteIdent(jt.Target),
	))
	args := make([]any, len(sources))
	for i, s := range sources {
		args[i] = s
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return links, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[K]struct{})
	for rows.Next() {
		var source, target K
		if err := rows.Scan(&source, &target); err != nil {
			return links, err //nolint:wrapcheck // pass through
		}
		links.bySource[source] = append(links.bySource[source], target)
		if _, ok := seen[target]; !ok {
			seen[target] = struct{}{}
			links.targets = append(links.targets, target)
		}
	}
	return links, rows.Err() //nolint:wrapcheck // pass through
}

// Related wires one side of a many-to-many association for PreloadLinked.
type Related[O, R any, K comparable] struct {
	Table JoinTable
	// OwnerKey and RelatedKey read the primary keys the join table stores.
	OwnerKey   func(*O) K
	RelatedKey func(*R) K
	// Load fetches the related rows for the given keys.
	Load func(ctx context.Context, db Querier, keys []K) ([]R, error)
	// Set stores the related rows on an owner; it is called for every owner.
	Set func(*O, []R)
}

// PreloadLinked fills the many-to-many association described by rel on
// every owner. Owners without links receive an empty, non-nil slice.
func PreloadLinked[O, R any, K comparable](ctx context.Context, db Querier, owners []O, rel Related[O, R, K]) error {
	if len(owners) == 0 {
		return nil
	}
	keys := make([]K, len(owners))
	for i := range owners {
		keys[i] = rel.OwnerKey(&owners[i])
	}

	links, err := LoadLinks(ctx, db, rel.Table, keys)
	if err != nil {
		return err
	}
	var related []R
	if targets := links.Targets(); len(targets) > 0 {
		if related, err = rel.Load(ctx, db, targets); err != nil {
			return err
		}
	}
	byKey := make(map[K]R, len(related))
	for i := range related {
		byKey[rel.RelatedKey(&related[i])] = related[i]
	}

	for i := range owners {
		linked := links.Of(keys[i])
		items := make([]R, 0, len(linked))
		for _, k := range linked {
			if r, ok := byKey[k]; ok {
				items = append(items, r)
			}
		}
		rel.Set(&owners[i], items)
	}
	return nil
}
