package safety

import (
	"strings"
	"testing"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	table, err := DefaultPatternTable()
	if err != nil {
		t.Fatalf("load default table: %v", err)
	}
	c, err := NewClassifier(table)
	if err != nil {
		t.Fatalf("compile classifier: %v", err)
	}
	return c
}

func TestClassifyMedicationRefusesWithMedicationTemplate(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("Est-ce que la metformine est compatible avec le jeûne?", "", "")

	if result.Decision != DecisionRefuse {
		t.Fatalf("decision: want=%q got=%q", DecisionRefuse, result.Decision)
	}
	if !strings.Contains(result.Response, "médicament") {
		t.Fatalf("expected medication template, got=%q", result.Response)
	}
	if len(result.MatchedPatterns) == 0 {
		t.Fatalf("expected matched patterns")
	}
}

func TestClassifyMedicationWinsOverClinicalCondition(t *testing.T) {
	c := newTestClassifier(t)

	// Matches both medication and clinical_condition; medication is first in
	// the ladder and must win.
	result := c.Classify("J'ai du diabète, puis-je prendre de l'insuline en jeûnant?", "", "")

	if result.Decision != DecisionRefuse {
		t.Fatalf("decision: want=%q got=%q", DecisionRefuse, result.Decision)
	}
	if !strings.Contains(result.Response, "médicament") {
		t.Fatalf("expected medication template to take priority, got=%q", result.Response)
	}
}

func TestClassifyMinorWithPersonalizedRequestRefusesWithMinorTemplate(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("J'ai 15 ans et je veux perdre du poids", "", "")

	if result.Decision != DecisionRefuse {
		t.Fatalf("decision: want=%q got=%q", DecisionRefuse, result.Decision)
	}
	if !strings.Contains(result.Response, "mineurs") {
		t.Fatalf("expected minor template, got=%q", result.Response)
	}
}

func TestClassifyMinorWithMealPlanRefusesWithMinorTemplate(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("J'ai 16 ans, tu peux me faire un plan alimentaire?", "", "")

	if result.Decision != DecisionRefuse {
		t.Fatalf("decision: want=%q got=%q", DecisionRefuse, result.Decision)
	}
	if !strings.Contains(result.Response, "mineurs") {
		t.Fatalf("expected minor template, got=%q", result.Response)
	}
}

func TestClassifyMinorAloneDoesNotRefuse(t *testing.T) {
	c := newTestClassifier(t)

	// "je suis 16" hits only the minor category; phrasings with "ans" also
	// hit the personalized-request age pattern and refuse.
	result := c.Classify("Je suis 16, c'est quoi une fibre?", "", "")

	if result.Decision != DecisionAllow {
		t.Fatalf("decision: want=%q got=%q", DecisionAllow, result.Decision)
	}
}

func TestClassifyEmergencyRefuses(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("J'ai arrêté de manger depuis trois jours", "", "")

	if result.Decision != DecisionRefuse {
		t.Fatalf("decision: want=%q got=%q", DecisionRefuse, result.Decision)
	}
}

func TestClassifyMealPlanRefusesWithGeneralTemplate(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("Donne-moi un exemple de repas pour la semaine", "", "")

	if result.Decision != DecisionRefuse {
		t.Fatalf("decision: want=%q got=%q", DecisionRefuse, result.Decision)
	}
	if !strings.Contains(result.Response, "professionnel de la santé") {
		t.Fatalf("expected general template, got=%q", result.Response)
	}
}

func TestClassifySupplementAllowsWithConstraints(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("À quoi sert le magnésium?", "", "")

	if result.Decision != DecisionAllowWithConstraints {
		t.Fatalf("decision: want=%q got=%q", DecisionAllowWithConstraints, result.Decision)
	}
	if result.Response != "" {
		t.Fatalf("constrained decision must not carry a canned response, got=%q", result.Response)
	}
}

func TestClassifyNumericTargetsAllowsWithConstraints(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("Que penser d'un apport de 2000 kcal en général?", "", "")

	if result.Decision != DecisionAllowWithConstraints {
		t.Fatalf("decision: want=%q got=%q", DecisionAllowWithConstraints, result.Decision)
	}
}

func TestClassifyBenignQuestionAllows(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("Pourquoi les fibres sont-elles importantes?", "", "")

	if result.Decision != DecisionAllow {
		t.Fatalf("decision: want=%q got=%q", DecisionAllow, result.Decision)
	}
	if result.Refused() {
		t.Fatalf("allow must not report refused")
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newTestClassifier(t)
	question := "J'ai du diabète et je prends un traitement"

	first := c.Classify(question, "", "")
	for i := 0; i < 10; i++ {
		again := c.Classify(question, "", "")
		if again.Decision != first.Decision {
			t.Fatalf("run %d: decision changed: want=%q got=%q", i, first.Decision, again.Decision)
		}
		if len(again.MatchedCategories) != len(first.MatchedCategories) {
			t.Fatalf("run %d: matched categories changed", i)
		}
		for j := range again.MatchedCategories {
			if again.MatchedCategories[j] != first.MatchedCategories[j] {
				t.Fatalf("run %d: category order changed", i)
			}
		}
	}
}

func TestClassifyScansHistoryAndContext(t *testing.T) {
	c := newTestClassifier(t)

	// The question alone is benign; the risk signal sits in history.
	result := c.Classify("Est-ce une bonne idée?", "Utilisateur: je prends de la metformine", "")

	if result.Decision != DecisionRefuse {
		t.Fatalf("decision: want=%q got=%q", DecisionRefuse, result.Decision)
	}
	if !strings.Contains(result.Response, "médicament") {
		t.Fatalf("expected medication template, got=%q", result.Response)
	}
}

func TestPolicyDisablesSupplementCategory(t *testing.T) {
	table, err := DefaultPatternTable()
	if err != nil {
		t.Fatalf("load default table: %v", err)
	}
	table.Policy.SupplementEnabled = false
	c, err := NewClassifier(table)
	if err != nil {
		t.Fatalf("compile classifier: %v", err)
	}

	result := c.Classify("À quoi sert le magnésium?", "", "")

	if result.Decision != DecisionAllow {
		t.Fatalf("decision: want=%q got=%q", DecisionAllow, result.Decision)
	}
}
