// services/export.go - flat tabular row building for the submissions report
package services

import (
	"context"
	"errors"
	"strings"

	"fund-admin-gateway/models"
	"fund-admin-gateway/utils"
)

// ErrNothingToExport is returned when the filtered set is empty; partial
// enrichment failures never abort an export.
var ErrNothingToExport = errors.New("no submissions match the export filters")

// SourceScope names the payload an export column reads from.
type SourceScope string

const (
	// ScopeRow reads the raw listing row.
	ScopeRow SourceScope = "row"
	// ScopeDetail reads the raw detail bundle.
	ScopeDetail SourceScope = "detail"
	// ScopeDetailData reads the typed {type,data} detail block.
	ScopeDetailData SourceScope = "detail_data"
)

// SourceRef is one candidate path of a column's fallback chain.
type SourceRef struct {
	Scope SourceScope
	Path  string
}

// ColumnKind selects coercion and cell formatting.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindDateTime
	KindBahtText  // Thai Baht text of the resolved number
	KindApplicant // joined applicant name
	KindStatus    // status label via the status lookup
	KindMergedPDF // merged submission document link
)

// ExportColumn declares one report column: its header and the ordered list of
// source paths tried until one yields a value. The table keeps the fallback
// policy auditable in one place.
type ExportColumn struct {
	Key     string
	Title   string
	Kind    ColumnKind
	Sources []SourceRef
}

// SubmissionExportColumns is the fixed schema of the submissions report.
var SubmissionExportColumns = []ExportColumn{
	{Key: "submission_number", Title: "เลขที่คำร้อง", Kind: KindText, Sources: srcs(
		row("submission_number"), detail("submission.submission_number"),
	)},
	{Key: "submission_type", Title: "ประเภทคำร้อง", Kind: KindText, Sources: srcs(
		row("submission_type"), detail("submission.submission_type"),
	)},
	{Key: "fiscal_year", Title: "ปีงบประมาณ", Kind: KindText, Sources: srcs(
		row("year.year"), row("Year.year"), detail("submission.year.year"),
	)},
	{Key: "category", Title: "หมวดทุน", Kind: KindText, Sources: srcs(
		row("category.category_name"), row("Category.category_name"),
		detail("submission.category.category_name"), row("category_name"),
	)},
	{Key: "subcategory", Title: "ประเภททุนย่อย", Kind: KindText, Sources: srcs(
		row("subcategory.subcategory_name"), row("Subcategory.subcategory_name"),
		detail("submission.subcategory.subcategory_name"), row("subcategory_name"),
	)},
	{Key: "title", Title: "ชื่อโครงการ/ผลงาน", Kind: KindText, Sources: srcs(
		detailData("project_title"), detailData("paper_title"),
		row("fund_application_detail.project_title"),
		row("FundApplicationDetail.project_title"),
		row("publication_reward_detail.paper_title"),
		row("PublicationRewardDetail.paper_title"),
		row("title"), detail("submission.title"),
	)},
	{Key: "applicant", Title: "ผู้ยื่นคำร้อง", Kind: KindApplicant},
	{Key: "applicant_email", Title: "อีเมล", Kind: KindText, Sources: srcs(
		detail("applicant.email"), row("user.email"), row("User.email"),
		row("applicant.email"),
	)},
	{Key: "requested_amount", Title: "จำนวนเงินที่ขอ", Kind: KindNumber, Sources: srcs(
		detailData("requested_amount"), row("requested_amount"),
		row("fund_application_detail.requested_amount"),
		row("FundApplicationDetail.requested_amount"),
	)},
	{Key: "approved_amount", Title: "จำนวนเงินที่อนุมัติ", Kind: KindNumber, Sources: srcs(
		detailData("approved_amount"), detailData("total_approve_amount"),
		row("approved_amount"),
		row("fund_application_detail.approved_amount"),
		row("FundApplicationDetail.approved_amount"),
		row("publication_reward_detail.total_approve_amount"),
		row("PublicationRewardDetail.total_approve_amount"),
	)},
	{Key: "approved_amount_text", Title: "จำนวนเงินอนุมัติ (ตัวอักษร)", Kind: KindBahtText, Sources: srcs(
		detailData("approved_amount"), detailData("total_approve_amount"),
		row("approved_amount"),
		row("fund_application_detail.approved_amount"),
		row("FundApplicationDetail.approved_amount"),
	)},
	{Key: "paid_amount", Title: "จ่ายแล้ว", Kind: KindNumber, Sources: srcs(
		detail("research_fund.summary.total_paid_amount"),
		detail("research_fund.summary.paid_amount"),
	)},
	{Key: "remaining_amount", Title: "คงเหลือ", Kind: KindNumber, Sources: srcs(
		detail("research_fund.summary.remaining_amount"),
	)},
	{Key: "status", Title: "สถานะ", Kind: KindStatus, Sources: srcs(
		row("status.status_name"), row("Status.status_name"),
		detail("submission.status.status_name"),
	)},
	{Key: "submitted_at", Title: "วันที่ยื่น", Kind: KindDateTime, Sources: srcs(
		row("submitted_at"), detail("submission.submitted_at"),
	)},
	{Key: "approved_at", Title: "วันที่อนุมัติ", Kind: KindDateTime, Sources: srcs(
		row("approved_at"), row("admin_approved_at"),
		detail("submission.admin_approved_at"),
	)},
	{Key: "created_at", Title: "วันที่สร้าง", Kind: KindDateTime, Sources: srcs(
		row("created_at"), detail("submission.created_at"),
	)},
	{Key: "merged_pdf", Title: "เอกสารรวม (PDF)", Kind: KindMergedPDF},
}

func srcs(refs ...SourceRef) []SourceRef { return refs }
func row(path string) SourceRef          { return SourceRef{Scope: ScopeRow, Path: path} }
func detail(path string) SourceRef       { return SourceRef{Scope: ScopeDetail, Path: path} }
func detailData(path string) SourceRef   { return SourceRef{Scope: ScopeDetailData, Path: path} }

// FileLinker absolutizes stored file references (satisfied by backend.Client).
type FileLinker interface {
	FileURL(stored string) string
	ManagedFileURL(fileID int) string
}

// ExportRow is one report row; cells align with SubmissionExportColumns.
// Cells are string, float64, or nil (rendered blank).
type ExportRow []any

// ExportBuilder maps the filtered, sorted row set into report rows, enriching
// missing details on demand through the shared cache.
type ExportBuilder struct {
	enricher *Enricher
	statuses *utils.StatusLookup
	files    FileLinker
	columns  []ExportColumn
}

// NewExportBuilder constructs an ExportBuilder over the shared enricher.
func NewExportBuilder(enricher *Enricher, statuses *utils.StatusLookup, files FileLinker) *ExportBuilder {
	return &ExportBuilder{
		enricher: enricher,
		statuses: statuses,
		files:    files,
		columns:  SubmissionExportColumns,
	}
}

// Columns returns the report schema.
func (b *ExportBuilder) Columns() []ExportColumn {
	return b.columns
}

// BuildRows enriches and flattens the row set. Enrichment is best effort;
// rows without details still resolve every column to a defined fallback.
func (b *ExportBuilder) BuildRows(ctx context.Context, rows []models.Submission) ([]ExportRow, error) {
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}

	if b.enricher != nil {
		b.enricher.Ensure(ctx, rows)
	}

	out := make([]ExportRow, 0, len(rows))
	for _, rowData := range rows {
		var bundle *models.SubmissionDetails
		if b.enricher != nil {
			bundle, _ = b.enricher.Cache().Get(rowData.Key())
		}
		out = append(out, b.buildRow(ctx, rowData, bundle))
	}
	return out, nil
}

func (b *ExportBuilder) buildRow(ctx context.Context, rowData models.Submission, bundle *models.SubmissionDetails) ExportRow {
	cells := make(ExportRow, 0, len(b.columns))
	for _, column := range b.columns {
		cells = append(cells, b.resolveCell(ctx, column, rowData, bundle))
	}
	return cells
}

func (b *ExportBuilder) resolveCell(ctx context.Context, column ExportColumn, rowData models.Submission, bundle *models.SubmissionDetails) any {
	switch column.Kind {
	case KindApplicant:
		return b.resolveApplicant(rowData, bundle)
	case KindStatus:
		return b.resolveStatus(ctx, column, rowData, bundle)
	case KindMergedPDF:
		return b.resolveMergedPDF(rowData, bundle)
	case KindNumber:
		for _, ref := range column.Sources {
			if value := utils.NumberAt(b.scope(ref.Scope, rowData, bundle), ref.Path); value != nil {
				return *value
			}
		}
		return nil
	case KindBahtText:
		for _, ref := range column.Sources {
			if value := utils.NumberAt(b.scope(ref.Scope, rowData, bundle), ref.Path); value != nil {
				return utils.BahtText(*value)
			}
		}
		return ""
	case KindDateTime:
		for _, ref := range column.Sources {
			if value := utils.TimeAt(b.scope(ref.Scope, rowData, bundle), ref.Path); value != nil {
				return utils.FormatDateTime(value)
			}
		}
		return ""
	default:
		for _, ref := range column.Sources {
			if value := utils.StringAt(b.scope(ref.Scope, rowData, bundle), ref.Path); value != "" {
				return value
			}
		}
		return ""
	}
}

func (b *ExportBuilder) scope(scope SourceScope, rowData models.Submission, bundle *models.SubmissionDetails) map[string]any {
	switch scope {
	case ScopeDetail:
		if bundle == nil {
			return nil
		}
		return bundle.Raw
	case ScopeDetailData:
		if bundle == nil {
			return nil
		}
		return bundle.DetailData()
	default:
		return rowData.Raw
	}
}

func (b *ExportBuilder) resolveApplicant(rowData models.Submission, bundle *models.SubmissionDetails) any {
	if bundle != nil && bundle.Applicant != nil {
		if name := bundle.Applicant.FullName(); name != "" {
			return name
		}
	}
	if name := resolveApplicantName(rowData); name != "" {
		return name
	}
	if bundle != nil {
		fname := utils.StringAt(bundle.Raw, "applicant.user_fname", "submission.user.user_fname")
		lname := utils.StringAt(bundle.Raw, "applicant.user_lname", "submission.user.user_lname")
		if name := strings.TrimSpace(fname + " " + lname); name != "" {
			return name
		}
	}
	return ""
}

func (b *ExportBuilder) resolveStatus(ctx context.Context, column ExportColumn, rowData models.Submission, bundle *models.SubmissionDetails) any {
	if rowData.Status != nil && rowData.Status.StatusName != "" {
		return rowData.Status.StatusName
	}
	for _, ref := range column.Sources {
		if value := utils.StringAt(b.scope(ref.Scope, rowData, bundle), ref.Path); value != "" {
			return value
		}
	}
	if b.statuses != nil && rowData.StatusID != 0 {
		return b.statuses.LabelByID(ctx, rowData.StatusID)
	}
	return ""
}

// mergedDocumentPaths lists the payload shapes the merged-PDF descriptor has
// appeared under across backend versions.
var mergedDocumentPaths = []SourceRef{
	detail("merged_document.file_path"),
	detail("merged_document.stored_path"),
	detail("submission.merged_document.file_path"),
	detailData("merged_document.file_path"),
	detailData("merged_document.stored_path"),
	row("merged_document.file_path"),
}

func (b *ExportBuilder) resolveMergedPDF(rowData models.Submission, bundle *models.SubmissionDetails) any {
	for _, ref := range mergedDocumentPaths {
		if stored := utils.StringAt(b.scope(ref.Scope, rowData, bundle), ref.Path); stored != "" {
			return b.fileURL(stored)
		}
	}

	// Fall back to scanning the documents list for a merged descriptor.
	if bundle != nil {
		for _, document := range bundle.Documents {
			if !isMergedDocument(document) {
				continue
			}
			if stored := utils.StringAt(document.File, "stored_path", "file_path"); stored != "" {
				return b.fileURL(stored)
			}
			if fileID, ok := utils.IntAt(document.File, "file_id"); ok && b.files != nil {
				return b.files.ManagedFileURL(fileID)
			}
			if document.FileID != 0 && b.files != nil {
				return b.files.ManagedFileURL(document.FileID)
			}
		}
	}
	return ""
}

func isMergedDocument(document models.SubmissionDocument) bool {
	code := strings.ToLower(utils.StringAt(document.DocumentType, "code", "document_type_name"))
	if strings.Contains(code, "merged") {
		return true
	}
	if merged, ok := utils.BoolAt(document.DocumentType, "is_merged"); ok && merged {
		return true
	}
	return strings.Contains(strings.ToLower(document.Description), "merged")
}

func (b *ExportBuilder) fileURL(stored string) string {
	if b.files == nil {
		return stored
	}
	return b.files.FileURL(stored)
}
