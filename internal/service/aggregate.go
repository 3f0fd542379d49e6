package service

import "tidestom/internal/models"

// Aggregation summarises the human classifications of one candidate.
type Aggregation struct {
	MostCommonClass  string `json:"most_common_class"`
	Count            int    `json:"count"`
	TotalSubmissions int    `json:"total_submissions"`
}

// AggregateHumanClassifications returns the most frequent sn_type, or nil
// for no records. Types are counted exactly as stored. Ties go to the type
// seen first, so records must be in submission order.
func AggregateHumanClassifications(records []models.HumanClassification) *Aggregation {
	if len(records) == 0 {
		return nil
	}
	counts := make(map[string]int, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		snType := rec.SNType
		if _, ok := counts[snType]; !ok {
			order = append(order, snType)
		}
		counts[snType]++
	}

	out := &Aggregation{TotalSubmissions: len(records)}
	for _, snType := range order {
		if counts[snType] > out.Count {
			out.MostCommonClass = snType
			out.Count = counts[snType]
		}
	}
	return out
}
