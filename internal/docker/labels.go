// labels.go defines the label schema that marks containers as managed by
// nihil. Labels survive daemon restarts and travel with the container, so
// filtering on them is more reliable than matching image tags, which can
// be retagged or removed while the container lives on.
package docker

import (
	"time"

	"github.com/docker/docker/api/types/filters"
)

const (
	// LabelManagedBy marks a container as owned by nihil.
	LabelManagedBy = "nihil.managed-by"

	// ManagedByValue is the value stored under LabelManagedBy.
	ManagedByValue = "nihil"

	// LabelWorkspace records the host workspace path mounted into the
	// container, informational only.
	LabelWorkspace = "nihil.workspace"

	// LabelCreatedAt records when nihil created the container,
	// RFC 3339 formatted.
	LabelCreatedAt = "nihil.created-at"
)

// ManagedLabels builds the label set applied to every container nihil
// creates. workspace may be empty when no mount was requested.
func ManagedLabels(workspace string, now time.Time) map[string]string {
	labels := map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelCreatedAt: now.UTC().Format(time.RFC3339),
	}
	if workspace != "" {
		labels[LabelWorkspace] = workspace
	}
	return labels
}

// ManagedFilter returns the server-side list filter matching containers
// carrying the nihil management label.
func ManagedFilter() filters.Args {
	return filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)
}
