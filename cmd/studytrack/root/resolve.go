package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/tracker"
)

// shortIDLen is how much of a uuid the tables print.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// matchID returns the single id equal to arg or starting with it.
func matchID(kind, arg string, ids []string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", model.Invalid(kind, "id is required")
	}

	var found []string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasPrefix(id, arg) {
			found = append(found, id)
		}
	}

	switch len(found) {
	case 0:
		return "", model.NotFound(kind, arg)
	case 1:
		return found[0], nil
	default:
		return "", model.Invalid(kind, fmt.Sprintf("id %q is ambiguous (%d matches)", arg, len(found)))
	}
}

// resolveTaskID accepts a full task id or a unique prefix.
func resolveTaskID(ctx context.Context, svc *tracker.Service, arg string) (string, error) {
	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return matchID("task", arg, ids)
}

// resolveCategoryID accepts a category name, a full id or a unique id
// prefix.
func resolveCategoryID(ctx context.Context, svc *tracker.Service, arg string) (string, error) {
	categories, err := svc.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(categories))
	for i, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(arg)) {
			return c.ID, nil
		}
		ids[i] = c.ID
	}
	return matchID("category", arg, ids)
}
