package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// businessColumns columnas de businesses (alias b). Texto nullable normalizado a "".
var businessColumns = []string{
	"b.id",
	"COALESCE(b.business_name, '')",
	"COALESCE(b.website_found, '')",
	"COALESCE(b.website_found_source, '')",
	"COALESCE(b.description, '')",
	"COALESCE(b.website_about_copy, '')",
	"COALESCE(b.google_maps_search_url, '')",
	"COALESCE(b.google_place_url, '')",
	"COALESCE(b.google_official_website, '')",
	"COALESCE(b.google_rating, 0)",
	"COALESCE(b.google_reviews_count, 0)",
	"COALESCE(b.google_address, '')",
	"COALESCE(b.google_phone, '')",
	"COALESCE(b.google_hours_summary, '')",
	"COALESCE(b.google_from_business, '')",
	"COALESCE(b.google_reviews_json, '')",
	"COALESCE(b.total_phones_found, 0)",
	"COALESCE(b.avg_confidence, 0)",
	"b.scraped_at",
	"COALESCE(b.social_facebook, '')",
	"COALESCE(b.social_instagram, '')",
	"COALESCE(b.social_linkedin, '')",
	"COALESCE(b.social_twitter, '')",
	"COALESCE(b.social_youtube, '')",
	"COALESCE(b.social_tiktok, '')",
	"COALESCE(b.phone_1, '')", "b.phone_1_confidence", "COALESCE(b.phone_1_source, '')",
	"COALESCE(b.phone_2, '')", "b.phone_2_confidence", "COALESCE(b.phone_2_source, '')",
	"COALESCE(b.phone_3, '')", "b.phone_3_confidence", "COALESCE(b.phone_3_source, '')",
	"COALESCE(b.phone_4, '')", "b.phone_4_confidence", "COALESCE(b.phone_4_source, '')",
	"COALESCE(b.phone_5, '')", "b.phone_5_confidence", "COALESCE(b.phone_5_source, '')",
	"b.created_at",
	"b.updated_at",
}

// editableColumns columnas del overlay (alias ed, LEFT JOIN).
var editableColumns = []string{
	"ed.id",
	"COALESCE(ed.primary_phone, '')",
	"COALESCE(ed.primary_email, '')",
	"COALESCE(ed.contact_person, '')",
	"COALESCE(ed.alternate_phone, '')",
	"COALESCE(ed.alternate_email, '')",
	"COALESCE(ed.notes, '')",
	"COALESCE(ed.tags, '{}')",
	"COALESCE(ed.custom_fields, '{}'::jsonb)",
	"ed.created_at",
	"ed.updated_at",
}

// leadColumns columnas de lead_info (alias li, LEFT JOIN).
var leadColumns = []string{
	"li.id",
	"COALESCE(li.status, '')",
	"COALESCE(li.priority, '')",
	"COALESCE(li.assigned_to, '')",
	"COALESCE(li.estimated_value, 0)",
	"li.expected_close_date",
	"li.last_contact_date",
	"li.next_follow_up_date",
	"COALESCE(li.source, '')",
	"li.created_at",
	"li.updated_at",
}

// inviteColumns columnas de campaign_invites (alias ci, LEFT JOIN).
var inviteColumns = []string{
	"ci.id",
	"COALESCE(ci.token, '')",
	"COALESCE(ci.emails_sent, 0)",
	"ci.last_email_sent",
	"COALESCE(ci.visits_count, 0)",
	"ci.last_visited_at",
	"COALESCE(ci.rsvps_count, 0)",
	"ci.last_rsvp_at",
	"ci.last_email_meta",
	"ci.last_visit_meta",
	"ci.last_rsvp_meta",
	"ci.created_at",
}

const relationsJoin = `
		FROM businesses b
		LEFT JOIN editable_business_data ed ON ed.business_id = b.id
		LEFT JOIN lead_info li ON li.business_id = b.id`

func selectList(groups ...[]string) string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return strings.Join(all, ", ")
}

// relationsRow destino de escaneo de un negocio con overlay, lead e invitación opcionales.
type relationsRow struct {
	b entity.Business

	edID           *string
	ed             entity.EditableData
	edCustomFields []byte
	edCreatedAt    *time.Time
	edUpdatedAt    *time.Time

	liID        *string
	li          entity.LeadInfo
	liStatus    string
	liPriority  string
	liValue     decimal.Decimal
	liCreatedAt *time.Time
	liUpdatedAt *time.Time

	ciID        *string
	ci          entity.CampaignInvite
	ciCreatedAt *time.Time
}

func (r *relationsRow) businessDest() []any {
	b := &r.b
	d := []any{
		&b.ID, &b.BusinessName, &b.WebsiteFound, &b.WebsiteFoundSource, &b.Description, &b.WebsiteAboutCopy,
		&b.GoogleMapsSearchURL, &b.GooglePlaceURL, &b.GoogleOfficialWebsite, &b.GoogleRating, &b.GoogleReviewsCount,
		&b.GoogleAddress, &b.GooglePhone, &b.GoogleHoursSummary, &b.GoogleFromBusiness, &b.GoogleReviewsJSON,
		&b.TotalPhonesFound, &b.AvgConfidence, &b.ScrapedAt,
		&b.SocialFacebook, &b.SocialInstagram, &b.SocialLinkedin, &b.SocialTwitter, &b.SocialYoutube, &b.SocialTiktok,
	}
	for i := range b.Phones {
		p := &b.Phones[i]
		d = append(d, &p.Number, &p.Confidence, &p.Source)
	}
	return append(d, &b.CreatedAt, &b.UpdatedAt)
}

func (r *relationsRow) editableDest() []any {
	ed := &r.ed
	return []any{
		&r.edID, &ed.PrimaryPhone, &ed.PrimaryEmail, &ed.ContactPerson, &ed.AlternatePhone, &ed.AlternateEmail,
		&ed.Notes, &ed.Tags, &r.edCustomFields, &r.edCreatedAt, &r.edUpdatedAt,
	}
}

func (r *relationsRow) leadDest() []any {
	li := &r.li
	return []any{
		&r.liID, &r.liStatus, &r.liPriority, &li.AssignedTo, &r.liValue,
		&li.ExpectedCloseDate, &li.LastContactDate, &li.NextFollowUpDate, &li.Source,
		&r.liCreatedAt, &r.liUpdatedAt,
	}
}

func (r *relationsRow) inviteDest() []any {
	ci := &r.ci
	return []any{
		&r.ciID, &ci.Token, &ci.EmailsSent, &ci.LastEmailSent, &ci.VisitsCount, &ci.LastVisitedAt,
		&ci.RsvpsCount, &ci.LastRsvpAt, &ci.LastEmailMeta, &ci.LastVisitMeta, &ci.LastRsvpMeta, &r.ciCreatedAt,
	}
}

func (r *relationsRow) scan(row pgx.Row, withInvite bool) error {
	dest := append(r.businessDest(), r.editableDest()...)
	dest = append(dest, r.leadDest()...)
	if withInvite {
		dest = append(dest, r.inviteDest()...)
	}
	return row.Scan(dest...)
}

func (r *relationsRow) result() (*entity.BusinessWithRelations, error) {
	out := &entity.BusinessWithRelations{Business: r.b}

	if r.edID != nil {
		ed := r.ed
		ed.ID = *r.edID
		ed.BusinessID = r.b.ID
		if ed.Tags == nil {
			ed.Tags = []string{}
		}
		ed.CustomFields = map[string]any{}
		if len(r.edCustomFields) > 0 {
			if err := json.Unmarshal(r.edCustomFields, &ed.CustomFields); err != nil {
				return nil, fmt.Errorf("custom_fields de %s: %w", r.b.ID, err)
			}
		}
		ed.CreatedAt = derefTime(r.edCreatedAt)
		ed.UpdatedAt = derefTime(r.edUpdatedAt)
		out.EditableData = &ed
	}

	if r.liID != nil {
		li := r.li
		li.ID = *r.liID
		li.BusinessID = r.b.ID
		li.Status = entity.LeadStatus(r.liStatus)
		li.Priority = entity.Priority(r.liPriority)
		li.EstimatedValue = r.liValue
		li.CreatedAt = derefTime(r.liCreatedAt)
		li.UpdatedAt = derefTime(r.liUpdatedAt)
		out.LeadInfo = &li
	}

	if r.ciID != nil {
		ci := r.ci
		ci.ID = *r.ciID
		ci.BusinessID = r.b.ID
		ci.CreatedAt = derefTime(r.ciCreatedAt)
		out.Invite = &ci
	}
	return out, nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func collectRelations(rows pgx.Rows, withInvite bool) ([]*entity.BusinessWithRelations, error) {
	defer rows.Close()
	var list []*entity.BusinessWithRelations
	for rows.Next() {
		var r relationsRow
		if err := r.scan(rows, withInvite); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		b, err := r.result()
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
