package warehouse

import "testing"

func TestParseTableRef(t *testing.T) {
	cases := []struct {
		name string
		uri  string
		want TableRef
	}{
		{
			name: "scheme stripped",
			uri:  "bq://acme-prod.fraud.transactions_train",
			want: TableRef{Project: "acme-prod", Dataset: "fraud", Table: "transactions_train"},
		},
		{
			name: "bare three-part",
			uri:  "acme-prod.fraud.transactions_test",
			want: TableRef{Project: "acme-prod", Dataset: "fraud", Table: "transactions_test"},
		},
		{
			name: "two-part",
			uri:  "fraud.transactions",
			want: TableRef{Dataset: "fraud", Table: "transactions"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTableRef(tc.uri)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParseTableRef(%q) = %+v, want %+v", tc.uri, got, tc.want)
			}
		})
	}
}

func TestParseTableRefRejectsMalformed(t *testing.T) {
	for _, uri := range []string{
		"",
		"bq://",
		"tableonly",
		"a.b.c.d",
		"fraud..transactions",
		"bq://.fraud.t",
	} {
		if _, err := ParseTableRef(uri); err == nil {
			t.Errorf("ParseTableRef(%q) succeeded, want error", uri)
		}
	}
}

func TestRelationQuotesIdentifiers(t *testing.T) {
	ref := TableRef{Dataset: "fraud", Table: `weird"name`}
	if got, want := ref.Relation(), `"fraud"."weird""name"`; got != want {
		t.Fatalf("Relation() = %s, want %s", got, want)
	}
}
