// Package services implements the company, job, user, member and
// application operations on top of gorm.
package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/ai-talent-hub/internal/events"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var tracer = telemetry.GetTracer("ai-talent-hub/services")

// Deps groups the collaborators shared by every service.
type Deps struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Events events.Publisher
	// Now is the clock used for timestamps and slug suffixes.
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Events == nil {
		d.Events = events.NewLogPublisher(d.Logger)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// publish sends ev after the write has committed. Failures are logged only.
func (d Deps) publish(ctx context.Context, subject string, ev any) {
	if err := d.Events.Publish(ctx, subject, ev); err != nil {
		d.Logger.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

// startSpan opens a span; the returned func records *errp and ends it.
func startSpan(ctx context.Context, name string) (context.Context, func(*error)) {
	ctx, span := tracer.Start(ctx, name)
	return ctx, func(errp *error) {
		telemetry.RecordError(span, *errp)
		span.End()
	}
}

// Slug column sizes.
const (
	companySlugSize = 200
	jobSlugSize     = 300
)

// uniqueSlug returns base, or base with a "-<unix millis>" suffix when a row
// of model already uses it. The result never exceeds size bytes.
func uniqueSlug(tx *gorm.DB, model any, base string, size int, now func() time.Time) (string, error) {
	base = truncateSlug(base, size)
	var count int64
	if err := tx.Model(model).Where("slug = ?", base).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}
	suffix := "-" + strconv.FormatInt(now().UnixMilli(), 10)
	return truncateSlug(base, size-len(suffix)) + suffix, nil
}

// truncateSlug cuts an ASCII slug to at most n bytes without a trailing hyphen.
func truncateSlug(slug string, n int) string {
	if len(slug) <= n {
		return slug
	}
	return strings.TrimRight(slug[:n], "-")
}

func slugBase(s, fallback string) string {
	if slug := models.Slugify(s); slug != "" {
		return slug
	}
	return fallback
}
