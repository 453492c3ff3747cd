package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vivu-app/journey-planner/internal/domain"
)

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves the whole process.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateLocations checks a non-empty location list: every entry needs an id
// unique within the list and coordinates inside the valid ranges.
func validateLocations(locs []domain.Location) error {
	if len(locs) == 0 {
		return fmt.Errorf("%w: locations must be a non-empty array", domain.ErrValidation)
	}

	seen := make(map[string]struct{}, len(locs))
	for i, loc := range locs {
		if err := validate.Struct(loc); err != nil {
			return fmt.Errorf("%w: locations[%d]: %s", domain.ErrValidation, i, describe(err))
		}
		if _, dup := seen[loc.ID]; dup {
			return fmt.Errorf("%w: locations[%d]: duplicate id %q", domain.ErrValidation, i, loc.ID)
		}
		seen[loc.ID] = struct{}{}
	}
	return nil
}

// describe turns the first validator failure into a short message.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "latitude":
		return "lat must be between -90 and 90"
	case "longitude":
		return "lon must be between -180 and 180"
	default:
		return fe.Field() + " is invalid"
	}
}
