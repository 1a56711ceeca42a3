package terminology

import (
	"strings"

	"clinicbook/internal/domain"
)

// SampleProcedures is the offline ICHI dataset used when a lookup comes back
// empty or fails
var SampleProcedures = []domain.SearchResult{
	{Code: "KBO.JB.AE", Title: "Percutaneous drainage of appendix", Description: "Drainage procedure for appendix"},
	{Code: "KBO.JB.AF", Title: "Laparoscopic appendectomy", Description: "Minimally invasive appendix removal"},
	{Code: "KBO.JB.AG", Title: "Open appendectomy", Description: "Traditional open surgery for appendix removal"},
	{Code: "KBP.JB.BA", Title: "Cholecystectomy", Description: "Gallbladder removal surgery"},
	{Code: "KBP.JB.BB", Title: "Laparoscopic cholecystectomy", Description: "Minimally invasive gallbladder removal"},
	{Code: "KBR.JB.CA", Title: "Colonoscopy", Description: "Examination of the colon"},
	{Code: "KBS.JB.DA", Title: "Mastectomy", Description: "Breast tissue removal"},
	{Code: "KBT.JB.EA", Title: "Hysterectomy", Description: "Uterus removal surgery"},
	{Code: "KBU.JB.FA", Title: "Angioplasty", Description: "Heart artery widening procedure"},
	{Code: "KBV.JB.GA", Title: "Cataract Surgery", Description: "Eye lens replacement"},
}

// SampleDiagnoses is the offline ICD-11 dataset
var SampleDiagnoses = []domain.SearchResult{
	{Code: "DA03.0", Title: "Acute appendicitis", Description: "Acute inflammation of the appendix"},
	{Code: "DA03.1", Title: "Chronic appendicitis", Description: "Chronic inflammation of the appendix"},
	{Code: "DA03.Y", Title: "Other specified appendicitis", Description: "Other forms of appendicitis"},
	{Code: "5A20.0Z", Title: "Type 2 diabetes mellitus", Description: "Adult-onset diabetes"},
	{Code: "5A20.00", Title: "Type 1 diabetes mellitus", Description: "Insulin-dependent diabetes"},
	{Code: "BA00.Z", Title: "Essential (primary) hypertension", Description: "High blood pressure"},
	{Code: "BA01.Z", Title: "Secondary hypertension", Description: "Hypertension due to other conditions"},
	{Code: "CA60.Z", Title: "Malignant neoplasm of breast", Description: "Breast cancer"},
	{Code: "CA61.Z", Title: "Malignant neoplasm of lung", Description: "Lung cancer"},
	{Code: "DA92.Z", Title: "Gastritis", Description: "Inflammation of stomach lining"},
}

// Samples returns the sample dataset for a search type
func Samples(t domain.SearchType) []domain.SearchResult {
	if t == domain.SearchDiagnosis {
		return SampleDiagnoses
	}
	return SampleProcedures
}

// SampleMatches filters the sample dataset by a case-insensitive substring
// match over title, code and description. An empty query returns everything.
// The returned slice is always a fresh copy.
func SampleMatches(t domain.SearchType, query string) []domain.SearchResult {
	items := Samples(t)
	if query == "" {
		return append([]domain.SearchResult(nil), items...)
	}

	term := strings.ToLower(query)
	var out []domain.SearchResult
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), term) ||
			strings.Contains(strings.ToLower(item.Code), term) ||
			(item.Description != "" && strings.Contains(strings.ToLower(item.Description), term)) {
			out = append(out, item)
		}
	}
	return out
}
