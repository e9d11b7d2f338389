package iostore

import (
	"context"
	"strings"

	"github.com/gnames/botdb/pkg/taxon"
)

const selectMatches = `
	SELECT f.id, f.name, f.authority,
	       g.id, g.family_id, g.name, g.authority,
	       s.id, s.genus_id, s.epithet, s.authority, s.publication_year
	FROM species s
	JOIN genera g ON g.id = s.genus_id
	JOIN families f ON f.id = g.family_id`

// LookupScientificName resolves a verbatim name string against the
// hierarchy. The name is first reduced to its canonical form with
// gnparser, so "Rosa rubiginosa L." and "rosa RUBIGINOSA" both match
// the same species. When the input carries an authorship the matches
// are additionally filtered by it.
func (s *storeio) LookupScientificName(
	ctx context.Context, name string,
) ([]taxon.NameMatch, error) {
	sqlDB, err := s.conn()
	if err != nil {
		return nil, err
	}

	genusName, epithet, authority, err := s.canonicalParts(name)
	if err != nil {
		return nil, err
	}
	if epithet == "" {
		// Uninomial input cannot resolve to a species.
		return nil, nil
	}

	rows, err := sqlDB.QueryContext(ctx, s.operator.Rebind(
		selectMatches+`
		WHERE lower(g.name) = lower(?)
		  AND lower(s.epithet) = lower(?)
		ORDER BY f.name, g.name, s.epithet`),
		genusName, epithet)
	if err != nil {
		return nil, QueryError(err)
	}
	defer func() { _ = rows.Close() }()

	matches, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}

	if authority == "" {
		return matches, nil
	}

	authority = strings.ToLower(authority)
	var filtered []taxon.NameMatch
	for _, m := range matches {
		if strings.ToLower(m.Species.Authority) == authority {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// canonicalParts reduces a verbatim name string to genus, epithet and
// authority. gnparser rejects names whose genus is not capitalized;
// the lookup contract is case-insensitive, so unparsed input falls
// back to a plain word split validated against the name rules.
func (s *storeio) canonicalParts(
	name string,
) (genus, epithet, authority string, err error) {
	parser := <-s.parsers
	prsd := parser.ParseName(name)
	s.parsers <- parser

	if prsd.Parsed && prsd.Canonical != nil {
		words := strings.Fields(prsd.Canonical.Simple)
		if len(words) < 2 {
			return words[0], "", "", nil
		}
		if prsd.Authorship != nil {
			authority = prsd.Authorship.Verbatim
		}
		return words[0], words[1], authority, nil
	}

	words := strings.Fields(name)
	if len(words) < 2 ||
		!taxon.ValidEpithet(words[0]) || !taxon.ValidEpithet(words[1]) {
		return "", "", "", ParseError(name)
	}
	return words[0], words[1], strings.Join(words[2:], " "), nil
}

// SearchSpecies returns matches whose composed canonical name
// ("Genus epithet") contains the pattern, case-insensitively.
func (s *storeio) SearchSpecies(
	ctx context.Context, pattern string,
) ([]taxon.NameMatch, error) {
	sqlDB, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, s.operator.Rebind(
		selectMatches+`
		WHERE lower(g.name || ' ' || s.epithet) LIKE lower(?)
		ORDER BY f.name, g.name, s.epithet`),
		"%"+pattern+"%")
	if err != nil {
		return nil, QueryError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanMatches(rows)
}

func scanMatches(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]taxon.NameMatch, error) {
	var res []taxon.NameMatch
	for rows.Next() {
		var m taxon.NameMatch
		err := rows.Scan(
			&m.Family.ID, &m.Family.Name, &m.Family.Authority,
			&m.Genus.ID, &m.Genus.FamilyID, &m.Genus.Name,
			&m.Genus.Authority,
			&m.Species.ID, &m.Species.GenusID, &m.Species.Epithet,
			&m.Species.Authority, &m.Species.PublicationYear)
		if err != nil {
			return nil, QueryError(err)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}
