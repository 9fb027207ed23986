// Package scope carries the active tenancy constraints of one request.
//
// Every query against tenant-owned rows (events, participants, answers,
// questionnaire assignments, text stores) must run inside a scope that
// declares the dimensions the entity requires; repositories refuse to run
// otherwise. This is a safety net against cross-tenant data leaks, not an
// optimization.
//
// A dimension is in one of three states: declared with a value (queries are
// filtered to it), declared unconstrained (queries run unfiltered; an
// explicit, auditable decision), or undeclared (queries fail with
// UnscopedAccessError). Frames nest per dimension: a child frame keeps the
// parent's declarations it does not redeclare, so nesting narrows and never
// silently widens.
//
// Frames live on the request's context.Context, so a scope can never outlive
// its request and is released on every exit path, including panics.
package scope

import (
	"context"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
)

type contextKey struct{}

// dim is the tri-state declaration of one dimension.
type dim struct {
	declared bool
	id       *uuid.UUID // nil when declared unconstrained
}

func (d dim) value() (uuid.UUID, bool) {
	if d.id == nil {
		return uuid.Nil, false
	}
	return *d.id, true
}

type frame struct {
	disabled bool

	user        dim
	organizer   dim
	event       dim
	participant dim
}

// Constraint declares one dimension of a scope frame.
type Constraint func(*frame)

func declared(id uuid.UUID) dim { return dim{declared: true, id: &id} }

var unconstrained = dim{declared: true}

// User constrains the acting user.
func User(id uuid.UUID) Constraint {
	return func(f *frame) { f.user = declared(id) }
}

// Organizer constrains queries to one tenant.
func Organizer(id uuid.UUID) Constraint {
	return func(f *frame) { f.organizer = declared(id) }
}

// Event constrains queries to one event.
func Event(id uuid.UUID) Constraint {
	return func(f *frame) { f.event = declared(id) }
}

// Participant constrains queries to one application.
func Participant(id uuid.UUID) Constraint {
	return func(f *frame) { f.participant = declared(id) }
}

// AnyOrganizer declares the organizer dimension without a value: queries run
// across tenants. Needed before the tenant is known, e.g. when resolving an
// event by organizer and event slug.
func AnyOrganizer() Constraint {
	return func(f *frame) { f.organizer = unconstrained }
}

// AnyEvent declares the event dimension without a value, for organizer-wide
// participant listings.
func AnyEvent() Constraint {
	return func(f *frame) { f.event = unconstrained }
}

// With pushes a new frame carrying the given constraints onto the context.
// Dimensions not redeclared are inherited from the parent frame. The parent
// context is untouched; dropping the derived context pops the frame.
func With(ctx context.Context, constraints ...Constraint) context.Context {
	f := &frame{}
	if parent := fromContext(ctx); parent != nil {
		*f = *parent
	}
	for _, c := range constraints {
		c(f)
	}
	return context.WithValue(ctx, contextKey{}, f)
}

// Disable switches scope enforcement off for the derived context. Queries
// run unfiltered regardless of declarations. Reserved for administrative
// contexts that legitimately cross tenants.
func Disable(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, &frame{disabled: true})
}

func fromContext(ctx context.Context) *frame {
	f, _ := ctx.Value(contextKey{}).(*frame)
	return f
}

// IsDisabled reports whether scope enforcement is switched off.
func IsDisabled(ctx context.Context) bool {
	f := fromContext(ctx)
	return f != nil && f.disabled
}

// UserID returns the acting user, if declared with a value.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	f := fromContext(ctx)
	if f == nil || f.disabled || !f.user.declared {
		return uuid.Nil, false
	}
	return f.user.value()
}

// OrganizerID returns the organizer constraint. The boolean is false when
// the dimension is declared unconstrained (or scoping is disabled). An
// undeclared dimension fails with UnscopedAccessError.
func OrganizerID(ctx context.Context) (uuid.UUID, bool, error) {
	return require(ctx, "organizer", func(f *frame) dim { return f.organizer })
}

// EventID returns the event constraint, with the same tri-state contract as
// OrganizerID.
func EventID(ctx context.Context) (uuid.UUID, bool, error) {
	return require(ctx, "event", func(f *frame) dim { return f.event })
}

// ParticipantID returns the participant constraint, if declared with a
// value. The participant dimension is never required by repositories, so an
// undeclared dimension is not an error here.
func ParticipantID(ctx context.Context) (uuid.UUID, bool) {
	f := fromContext(ctx)
	if f == nil || f.disabled || !f.participant.declared {
		return uuid.Nil, false
	}
	return f.participant.value()
}

func require(ctx context.Context, name string, get func(*frame) dim) (uuid.UUID, bool, error) {
	f := fromContext(ctx)
	if f == nil {
		return uuid.Nil, false, &domain.UnscopedAccessError{Dimension: name}
	}
	if f.disabled {
		return uuid.Nil, false, nil
	}
	d := get(f)
	if !d.declared {
		return uuid.Nil, false, &domain.UnscopedAccessError{Dimension: name}
	}
	id, ok := d.value()
	return id, ok, nil
}
