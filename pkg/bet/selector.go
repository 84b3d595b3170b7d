package bet

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richard-senior/sofabet/pkg/sofascore"
	"github.com/richard-senior/sofabet/pkg/util"
)

// ErrInvalidSelection is returned for a championship choice that cannot be honoured
var ErrInvalidSelection = errors.New("invalid championship selection")

// names shorter than this only match exactly
const minFuzzyQuery = 3

// Selector picks a championship from the provider's list
type Selector interface {
	Select(ctx context.Context, championships []sofascore.Championship) (sofascore.Championship, error)
}

// SelectorFunc adapts a plain function to Selector
type SelectorFunc func(ctx context.Context, championships []sofascore.Championship) (sofascore.Championship, error)

func (f SelectorFunc) Select(ctx context.Context, championships []sofascore.Championship) (sofascore.Championship, error) {
	return f(ctx, championships)
}

// PromptSelector lists the championships on Out and reads a 1-based number from In
type PromptSelector struct {
	In  io.Reader
	Out io.Writer
}

func (p *PromptSelector) Select(ctx context.Context, championships []sofascore.Championship) (sofascore.Championship, error) {
	for i, c := range championships {
		fmt.Fprintf(p.Out, "%d. %s - %s\n", i+1, c.Name, c.Flag)
	}
	fmt.Fprint(p.Out, "\nWhich championship do you want to bet on ?\n=> ")

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return sofascore.Championship{}, fmt.Errorf("%w: no input: %v", ErrInvalidSelection, err)
	}
	return ChooseByIndex(championships, line)
}

// ChooseByIndex picks the championship at a 1-based position typed by the user
func ChooseByIndex(championships []sofascore.Championship, input string) (sofascore.Championship, error) {
	input = strings.TrimSpace(input)
	if !util.IsNumeric(input) {
		return sofascore.Championship{}, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, input)
	}
	idx := util.ConvertToInt(input)
	if idx < 1 || idx > len(championships) {
		return sofascore.Championship{}, fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidSelection, idx, len(championships))
	}
	return championships[idx-1], nil
}

// ResolveChampionship finds a championship by name
// Case and accents are ignored, a name within two edits of consecutive words of a championship name matches
// Numbers and short words such as "2" or "B" must be exact, so "Ligue 2" never resolves to "Ligue 1"
// The closest candidate wins, the earlier listed one on a tie
func ResolveChampionship(championships []sofascore.Championship, name string) (sofascore.Championship, error) {
	query := util.NormalizeName(name)
	if query == "" {
		return sofascore.Championship{}, fmt.Errorf("%w: empty name", ErrInvalidSelection)
	}

	for _, c := range championships {
		if util.NormalizeName(c.Name) == query {
			return c, nil
		}
	}

	if len([]rune(query)) < minFuzzyQuery {
		return sofascore.Championship{}, fmt.Errorf("%w: no championship named %q", ErrInvalidSelection, name)
	}

	best := -1
	bestDistance := 0
	bestScore := 0.0
	for i, c := range championships {
		d, ok := util.FuzzyMatch(query, c.Name)
		if !ok {
			continue
		}
		s := util.FuzzyMatchScore(d, query, c.Name)
		if best < 0 || d < bestDistance || (d == bestDistance && s > bestScore) {
			best, bestDistance, bestScore = i, d, s
		}
	}
	if best < 0 {
		return sofascore.Championship{}, fmt.Errorf("%w: no championship matches %q", ErrInvalidSelection, name)
	}
	return championships[best], nil
}
