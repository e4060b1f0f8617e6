package models

// StudentRecord defines the persisted student based on the 'students' table / collection
type StudentRecord struct {
	// School-supplied identifier, immutable
	ID string `json:"id" db:"id" bson:"_id" example:"S-2024-001"`
	// Personal names, cleared on pseudonymization
	GivenName *string `json:"givenname,omitempty" db:"given_name" bson:"givenname,omitempty" example:"Max"`
	Surname   *string `json:"surname,omitempty" db:"surname" bson:"surname,omitempty" example:"Mustermann"`
	// Absent once the student has been deleted
	InvitationTemplateID *string `json:"correspondingRelationshipTemplateId,omitempty" db:"invitation_template_id" bson:"correspondingRelationshipTemplateId,omitempty"`
	// Set once the invitation is accepted
	RelationshipID *string `json:"correspondingRelationshipId,omitempty" db:"relationship_id" bson:"correspondingRelationshipId,omitempty"`
}

// HasTemplate reports whether the invitation template reference is set.
func (s *StudentRecord) HasTemplate() bool {
	return s.InvitationTemplateID != nil && *s.InvitationTemplateID != ""
}

// HasRelationship reports whether the relationship reference is set.
func (s *StudentRecord) HasRelationship() bool {
	return s.RelationshipID != nil && *s.RelationshipID != ""
}

// TemplateID returns the template reference or "".
func (s *StudentRecord) TemplateID() string {
	if s.InvitationTemplateID == nil {
		return ""
	}
	return *s.InvitationTemplateID
}

// RelID returns the relationship reference or "".
func (s *StudentRecord) RelID() string {
	if s.RelationshipID == nil {
		return ""
	}
	return *s.RelationshipID
}

// Pseudonymize clears every personal field. Only ID survives.
func (s *StudentRecord) Pseudonymize() {
	s.GivenName = nil
	s.Surname = nil
	s.InvitationTemplateID = nil
	s.RelationshipID = nil
}

// StringPtr returns nil for "" and a pointer to v otherwise.
func StringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
