package sampler

import (
	"testing"

	"lockwatch/pkg/model"
)

func TestResourceID_PrefersRelationOID(t *testing.T) {
	got := resourceID("relation", "16384", "741", "3/12")
	if got != "relation:16384" {
		t.Errorf("expected relation:16384, got %s", got)
	}
}

func TestResourceID_FallsBackToTransactionID(t *testing.T) {
	got := resourceID("transactionid", "", "741", "3/12")
	if got != "transactionid:741" {
		t.Errorf("expected transactionid:741, got %s", got)
	}
}

func TestResourceID_FallsBackToVirtualXID(t *testing.T) {
	got := resourceID("virtualxid", "", "", "3/12")
	if got != "virtualxid:3/12" {
		t.Errorf("expected virtualxid:3/12, got %s", got)
	}
}

func TestResourceID_BareLockType(t *testing.T) {
	got := resourceID("advisory", "", "", "")
	if got != "advisory" {
		t.Errorf("expected advisory, got %s", got)
	}
}

func TestRelationName_UsesCatalogName(t *testing.T) {
	if got := relationName("relation", "16384", "orders"); got != "orders" {
		t.Errorf("expected orders, got %s", got)
	}
}

func TestRelationName_DroppedRelationIsUnknown(t *testing.T) {
	if got := relationName("relation", "16384", ""); got != model.UnknownRelation {
		t.Errorf("expected %s, got %s", model.UnknownRelation, got)
	}
}

func TestRelationName_NonRelationLocksHaveNoName(t *testing.T) {
	if got := relationName("transactionid", "", ""); got != "" {
		t.Errorf("expected empty name, got %s", got)
	}
}

func TestIdentityResolver(t *testing.T) {
	database, ok := IdentityResolver("tenant_a")
	if !ok || database != "tenant_a" {
		t.Errorf("expected tenant_a/true, got %s/%v", database, ok)
	}
}
