package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var filterFixture = []Load{
	{ID: 1, Status: StatusPickUp, Origin: "Chicago, IL", Destination: "Dallas, TX", ClientName: "Acme Corp", CarrierName: "FastFreight"},
	{ID: 2, Status: StatusInRoute, Origin: "Denver, CO", Destination: "Phoenix, AZ", ClientName: "Globex", CarrierName: "RoadRunner"},
	{ID: 12, Status: StatusDelivered, Origin: "Miami, FL", Destination: "Atlanta, GA", ClientName: "Acme Corp", CarrierName: "RoadRunner"},
	{ID: 21, Status: "Delivered", Origin: "Seattle, WA", Destination: "Portland, OR", ClientName: "Initech", CarrierName: "FastFreight"},
}

func TestFilterLoads(t *testing.T) {
	tests := []struct {
		name     string
		criteria FilterCriteria
		want     []int
	}{
		{"no criteria", FilterCriteria{}, []int{1, 2, 12, 21}},
		{"sentinels", FilterCriteria{Status: AllStatus, Client: AllClients, Carrier: AllCarriers}, []int{1, 2, 12, 21}},
		{"empty axes widen like sentinels", FilterCriteria{Search: "acme", Status: "", Client: "", Carrier: ""}, []int{1, 12}},
		{"search client case-insensitive", FilterCriteria{Search: "acme"}, []int{1, 12}},
		{"search destination upper case", FilterCriteria{Search: "DALLAS"}, []int{1}},
		{"search carrier", FilterCriteria{Search: "runner"}, []int{2, 12}},
		{"search matches id substring", FilterCriteria{Search: "2"}, []int{2, 12, 21}},
		{"search no match", FilterCriteria{Search: "zzz"}, []int{}},
		{"status case-insensitive", FilterCriteria{Status: "delivered"}, []int{12, 21}},
		{"status title case", FilterCriteria{Status: "In Route"}, []int{2}},
		{"client exact", FilterCriteria{Client: "Acme Corp"}, []int{1, 12}},
		{"client is case-sensitive", FilterCriteria{Client: "acme corp"}, []int{}},
		{"carrier and status", FilterCriteria{Carrier: "RoadRunner", Status: "delivered"}, []int{12}},
		{"search and client", FilterCriteria{Search: "road", Client: "Globex"}, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loadIDs(FilterLoads(filterFixture, tt.criteria))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterLoads ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterLoads_SubsetAndIdempotent(t *testing.T) {
	criteria := []FilterCriteria{
		{},
		{Search: "a"},
		{Status: "pick up"},
		{Client: "Acme Corp", Carrier: "FastFreight"},
		{Search: "1", Status: "delivered"},
	}

	inFixture := make(map[int]bool)
	for _, l := range filterFixture {
		inFixture[l.ID] = true
	}

	for _, c := range criteria {
		once := FilterLoads(filterFixture, c)
		for _, l := range once {
			if !inFixture[l.ID] {
				t.Errorf("%+v: result contains load %d not in input", c, l.ID)
			}
		}
		twice := FilterLoads(once, c)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("%+v: filter not idempotent (-once +twice):\n%s", c, diff)
		}
	}
}

func TestFilterLoads_DoesNotModifyInput(t *testing.T) {
	input := append([]Load(nil), filterFixture...)
	out := FilterLoads(input, FilterCriteria{})
	out[0].Origin = "Changed"

	if diff := cmp.Diff(filterFixture, input); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

func TestUniqueClientsAndCarriers(t *testing.T) {
	if diff := cmp.Diff([]string{"Acme Corp", "Globex", "Initech"}, UniqueClients(filterFixture)); diff != "" {
		t.Errorf("UniqueClients mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"FastFreight", "RoadRunner"}, UniqueCarriers(filterFixture)); diff != "" {
		t.Errorf("UniqueCarriers mismatch (-want +got):\n%s", diff)
	}

	empty := UniqueClients(nil)
	if empty == nil || len(empty) != 0 {
		t.Errorf("UniqueClients(nil) = %#v, want empty non-nil slice", empty)
	}
}
