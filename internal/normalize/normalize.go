// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fmlinfra/jmlr-pipeline/internal/store"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

const institutionSystemPrompt = `You canonicalize academic affiliations.
Given the affiliation lines printed under an author's name, identify the
primary institution (university, company, or research lab). Drop
departments, schools, street addresses, and postal codes. Respond with
exactly one line in the form:

institution: <canonical institution name>

If no institution can be identified, respond with:

institution: Unknown`

const regionSystemPrompt = `You map academic institutions to countries.
Given an institution name, respond with exactly one line in the form:

region: <country name> <ISO 3166-1 alpha-2 code>

For example "region: United States US" or "region: Switzerland CH".
If the country cannot be determined, respond with:

region: Unknown`

var (
	institutionLineRe = regexp.MustCompile(`(?im)^\s*institution:\s*(.+)$`)
	regionLineRe      = regexp.MustCompile(`(?im)^\s*region:\s*(.+)$`)
	alpha2Re          = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ErrUnknown reports that the model could not identify the requested value.
var ErrUnknown = fmt.Errorf("model answered Unknown")

// Institution asks the backend for the canonical institution behind an
// affiliation block.
func Institution(ctx context.Context, b Backend, affiliation []string) (string, error) {
	reply, err := b.Complete(ctx, institutionSystemPrompt, strings.Join(affiliation, "\n"))
	if err != nil {
		return "", err
	}
	m := institutionLineRe.FindStringSubmatch(reply)
	if m == nil {
		return "", fmt.Errorf("no institution line in reply %q", reply)
	}
	name := strings.TrimSpace(m[1])
	if name == "" || strings.EqualFold(name, "unknown") {
		return "", ErrUnknown
	}
	return name, nil
}

// Region asks the backend for the country of an institution and returns
// the country name and its alpha-2 code.
func Region(ctx context.Context, b Backend, institution string) (name, code string, err error) {
	reply, err := b.Complete(ctx, regionSystemPrompt, institution)
	if err != nil {
		return "", "", err
	}
	m := regionLineRe.FindStringSubmatch(reply)
	if m == nil {
		return "", "", fmt.Errorf("no region line in reply %q", reply)
	}
	value := strings.TrimSpace(m[1])
	if strings.EqualFold(value, "unknown") {
		return "", "", ErrUnknown
	}

	fields := strings.Fields(value)
	if len(fields) < 2 || !alpha2Re.MatchString(fields[len(fields)-1]) {
		return "", "", fmt.Errorf("malformed region reply %q", value)
	}
	code = fields[len(fields)-1]
	name = strings.Join(fields[:len(fields)-1], " ")
	return name, code, nil
}

// Result summarizes a normalization run.
type Result struct {
	Normalized int
	Skipped    int
	Failed     int
}

// Total returns the number of papers considered.
func (r Result) Total() int {
	return r.Normalized + r.Skipped + r.Failed
}

// HasFailures reports whether any paper failed to normalize.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Papers normalizes the first-author affiliation of every stored paper
// that has not been normalized yet. Already-normalized papers and papers
// without affiliations are skipped; individual failures are reported on w
// and do not stop the run.
func Papers(ctx context.Context, b Backend, s *store.Store, w io.Writer) (Result, error) {
	papers, err := s.Papers(ctx, 0)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, p := range papers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if p.Institution != "" && p.Region != "" {
			result.Skipped++
			fmt.Fprintf(w, "skipped:    %s (already normalized)\n", p.ID)
			continue
		}
		if len(p.FirstAffiliation()) == 0 {
			result.Skipped++
			fmt.Fprintf(w, "skipped:    %s (no affiliation)\n", p.ID)
			continue
		}

		institution, region, err := normalizeOne(ctx, b, &p)
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:     %s (%v)\n", p.ID, err)
			continue
		}
		if err := s.SetNormalization(ctx, p.ID, institution, region); err != nil {
			return result, err
		}
		result.Normalized++
		fmt.Fprintf(w, "normalized: %s (%s, %s)\n", p.ID, institution, region)
	}

	fmt.Fprintf(w, "Normalize summary: %d normalized, %d skipped, %d failed\n",
		result.Normalized, result.Skipped, result.Failed)
	return result, nil
}

func normalizeOne(ctx context.Context, b Backend, p *types.Paper) (institution, region string, err error) {
	institution, err = Institution(ctx, b, p.FirstAffiliation())
	if err != nil {
		return "", "", err
	}
	_, region, err = Region(ctx, b, institution)
	if err != nil {
		return "", "", err
	}
	return institution, region, nil
}
