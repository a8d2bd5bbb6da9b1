package services

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/shared"
)

// CheckVersion returns an error wrapping [shared.ErrUnsupportedVersion] when v is older than minVersion.
// An empty minVersion accepts every release.
func CheckVersion(v models.ServerVersion, minVersion string) error {
	if minVersion == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		return fmt.Errorf("%w: min_version %q: %v", shared.ErrInvalidConfig, minVersion, err)
	}

	current, err := semver.NewVersion(v.String())
	if err != nil {
		return fmt.Errorf("%w: server reported %s: %v", shared.ErrUnsupportedVersion, v, err)
	}

	if !constraint.Check(current) {
		return fmt.Errorf("%w: server is %s, minimum supported is %s", shared.ErrUnsupportedVersion, current, minVersion)
	}
	return nil
}
