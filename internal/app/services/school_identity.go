package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/schoolconnector/internal/pkg/connector"
)

const displayNameValueType = "DisplayName"

// SchoolIdentity is the connector identity of the school and the display
// name attribute shared with every onboarded student.
type SchoolIdentity struct {
	Address     string
	DisplayName connector.LocalAttribute
}

// Name returns the school's display name.
func (s SchoolIdentity) Name() string {
	return s.DisplayName.Content.Value.Value
}

// EnsureSchoolIdentity resolves the connector address and finds the DisplayName
// repository attribute matching schoolName, creating it when missing.
func EnsureSchoolIdentity(ctx context.Context, conn connector.Client, schoolName string, log zerolog.Logger) (SchoolIdentity, error) {
	info, err := conn.GetIdentityInfo(ctx)
	if err != nil {
		return SchoolIdentity{}, connectorError("get identity info", err)
	}

	attrs, err := conn.GetRepositoryAttributes(ctx, displayNameValueType)
	if err != nil {
		return SchoolIdentity{}, connectorError("get display name attributes", err)
	}
	for _, attr := range attrs {
		if attr.Content.Value.Value == schoolName {
			log.Info().Str("attributeID", attr.ID).Msg("Using existing DisplayName attribute")
			return SchoolIdentity{Address: info.Address, DisplayName: attr}, nil
		}
	}

	created, err := conn.CreateRepositoryAttribute(ctx, connector.AttributeValue{Type: displayNameValueType, Value: schoolName})
	if err != nil {
		return SchoolIdentity{}, connectorError("create display name attribute", err)
	}
	log.Info().Str("attributeID", created.ID).Str("schoolName", schoolName).Msg("Created DisplayName attribute")
	return SchoolIdentity{Address: info.Address, DisplayName: created}, nil
}
