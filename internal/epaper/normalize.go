package epaper

import (
	"fmt"
	"strconv"
	"strings"

	"epaperhub/pkg/models"
)

// NormalizeEntry maps one raw page descriptor into the canonical
// edition shape. It is pure: same input, same output. A descriptor
// missing required fields is a caller bug (only descriptors from a
// successful page fetch may be passed in), so it errors hard instead
// of producing a partial record.
func NormalizeEntry(p models.RawPage, paperName string) (models.Edition, error) {
	switch {
	case p.HighResolution == "":
		return models.Edition{}, fmt.Errorf("normalize %s entry: missing HighResolution", paperName)
	case p.EditionDate == "":
		return models.Edition{}, fmt.Errorf("normalize %s entry: missing EditionDate", paperName)
	case p.EditionName == "":
		return models.Edition{}, fmt.Errorf("normalize %s entry: missing EditionName", paperName)
	case p.PageID.String() == "":
		return models.Edition{}, fmt.Errorf("normalize %s entry: missing PageId", paperName)
	}

	id, err := strconv.Atoi(p.EditionID.String())
	if err != nil {
		return models.Edition{}, fmt.Errorf("normalize %s entry: bad EditionID %q: %w", paperName, p.EditionID.String(), err)
	}

	return models.Edition{
		Path:           strings.ReplaceAll(p.HighResolution, `\`, "/"),
		EditionDate:    p.EditionDate,
		EditionName:    paperName + " " + p.EditionName,
		MobEditionName: p.EditionName,
		EditionID:      id,
		PageID:         p.PageID.String(),
		Date:           strings.ReplaceAll(p.EditionDate, "/", "-"),
		Source:         paperName,
	}, nil
}
