// Package modelmetrics holds the evaluation scores of the two churn
// prediction models shown on the dashboard. The scores were produced offline
// and are compiled in; nothing here trains or runs a model.
package modelmetrics

import (
	"fmt"

	"github.com/gomarkdown/markdown"
)

// Metric names one evaluation score.
type Metric string

const (
	Accuracy  Metric = "Accuracy"
	Precision Metric = "Precision"
	Recall    Metric = "Recall"
	F1Score   Metric = "F1 Score"
	ROCAUC    Metric = "ROC-AUC"
)

// AllMetrics lists the metrics in display order.
func AllMetrics() []Metric {
	return []Metric{Accuracy, Precision, Recall, F1Score, ROCAUC}
}

// Scores is the fixed set of five evaluation scores of a model.
type Scores struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	ROCAUC    float64 `json:"roc_auc"`
}

// Value returns the score for m.
func (s Scores) Value(m Metric) (float64, error) {
	switch m {
	case Accuracy:
		return s.Accuracy, nil
	case Precision:
		return s.Precision, nil
	case Recall:
		return s.Recall, nil
	case F1Score:
		return s.F1Score, nil
	case ROCAUC:
		return s.ROCAUC, nil
	}
	return 0, fmt.Errorf("unknown metric %q", m)
}

// Model pairs a model name with its scores.
type Model struct {
	Name   string `json:"name"`
	Scores Scores `json:"scores"`
}

const (
	RandomForest = "Random Forest"
	XGBoost      = "XGBoost"
)

// models is never handed out directly; All and Lookup return copies.
var models = [...]Model{
	{
		Name: RandomForest,
		Scores: Scores{
			Accuracy:  0.683,
			Precision: 0.746,
			Recall:    0.855,
			F1Score:   0.796,
			ROCAUC:    0.583,
		},
	},
	{
		Name: XGBoost,
		Scores: Scores{
			Accuracy:  0.699,
			Precision: 0.758,
			Recall:    0.859,
			F1Score:   0.806,
			ROCAUC:    0.581,
		},
	},
}

// Conclusion is the analyst note shown under the comparison, in markdown.
const Conclusion = "**Conclusion**: While both models perform well, **XGBoost** slightly outperforms " +
	"Random Forest on F1 and accuracy, though ROC-AUC remains modest for both due to class imbalance."

// All returns both models in display order.
func All() []Model {
	out := make([]Model, len(models))
	copy(out, models[:])
	return out
}

// Names returns the model names in display order.
func Names() []string {
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	return names
}

// Lookup returns the model with the given name.
func Lookup(name string) (Model, bool) {
	for _, m := range models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// Leader is the best model for one metric.
type Leader struct {
	Metric Metric  `json:"metric"`
	Model  string  `json:"model"`
	Value  float64 `json:"value"`
	Margin float64 `json:"margin"`
}

// Leaders returns, per metric, the model with the highest score and its
// margin over the runner-up. Ties go to the model listed first.
func Leaders() []Leader {
	leaders := make([]Leader, 0, len(AllMetrics()))
	for _, metric := range AllMetrics() {
		best, runnerUp := -1.0, -1.0
		bestName := ""
		for _, m := range models {
			v, _ := m.Scores.Value(metric)
			if v > best {
				runnerUp = best
				best, bestName = v, m.Name
			} else if v > runnerUp {
				runnerUp = v
			}
		}
		leaders = append(leaders, Leader{
			Metric: metric,
			Model:  bestName,
			Value:  best,
			Margin: best - runnerUp,
		})
	}
	return leaders
}

// ConclusionHTML renders Conclusion to HTML.
func ConclusionHTML() string {
	return string(markdown.ToHTML([]byte(Conclusion), nil, nil))
}

// FormatScore formats a score the way the dashboard shows it.
func FormatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
