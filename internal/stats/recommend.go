package stats

// Recommendation texts shared by the index panel and the exported report.
const (
	RecReduceHighs      = "Consider adjusting diet or medication to reduce high readings"
	RecWatchHypos       = "Watch for signs of hypoglycemia and adjust medication if needed"
	RecKeepGoing        = "Keep up the good work!"
	RecKeepGoingDetail  = "Keep up the good work! Your glycemic control is adequate"
	RecSeekAdvice       = "Seek medical advice to adjust treatment"
	RecSeekAdviceDetail = "Seek medical advice to adjust treatment, as very high readings were recorded"
	RecPrepareHypos     = "Be prepared to treat hypoglycemia"
	RecPrepareDetail    = "Be prepared to treat hypoglycemia and talk to your doctor about adjustments"
)

// IndexRecommendations returns the advice shown with the glycemic index panel.
func IndexRecommendations(s Summary) []string {
	if s.Empty() {
		return nil
	}
	var recs []string
	if s.HighPercent > 20 {
		recs = append(recs, RecReduceHighs)
	}
	if s.LowPercent > 5 {
		recs = append(recs, RecWatchHypos)
	}
	if s.NormalPercent > 70 {
		recs = append(recs, RecKeepGoing)
	}
	if s.Max > 250 {
		recs = append(recs, RecSeekAdvice)
	}
	if s.Min < 60 {
		recs = append(recs, RecPrepareHypos)
	}
	return recs
}

// ReportRecommendations returns the advice written into exported reports.
func ReportRecommendations(s Summary) []string {
	if s.Empty() {
		return nil
	}
	var recs []string
	if s.HighPercent > 20 {
		recs = append(recs, RecReduceHighs)
	}
	if s.LowPercent > 5 {
		recs = append(recs, RecWatchHypos)
	}
	if s.Mean < 130 && s.HighPercent < 20 && s.LowPercent < 5 {
		recs = append(recs, RecKeepGoingDetail)
	}
	if s.Max > 250 {
		recs = append(recs, RecSeekAdviceDetail)
	}
	if s.Min < 60 {
		recs = append(recs, RecPrepareDetail)
	}
	return recs
}
