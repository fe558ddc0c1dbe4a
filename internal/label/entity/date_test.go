package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024/03/05", want: NewDate(2024, time.March, 5)},
		{in: "2024-03-05", want: NewDate(2024, time.March, 5)},
		{in: "20241231", want: NewDate(2024, time.December, 31)},
		{in: " 2025/01/09 ", want: NewDate(2025, time.January, 9)},
		{in: "2024/13/01", wantErr: true},
		{in: "05/03/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDateString(t *testing.T) {
	if s := NewDate(2024, time.March, 5).String(); s != "2024/03/05" {
		t.Errorf("Expected 2024/03/05, got %q", s)
	}
	var zero Date
	if !zero.IsZero() || zero.String() != "" {
		t.Errorf("Expected zero date to print empty, got %q", zero.String())
	}
}

func TestLabelRecordJSONDates(t *testing.T) {
	var rec LabelRecord
	body := `{"company_code":"A1","production_date":"2024/03/05","delivery_date":""}`
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if rec.ProductionDate != NewDate(2024, time.March, 5) {
		t.Errorf("Expected production date 2024/03/05, got %v", rec.ProductionDate)
	}
	if !rec.DeliveryDate.IsZero() {
		t.Errorf("Expected empty delivery date to stay zero, got %v", rec.DeliveryDate)
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back map[string]interface{}
	json.Unmarshal(out, &back)
	if back["production_date"] != "2024/03/05" {
		t.Errorf("Expected production_date 2024/03/05 in JSON, got %v", back["production_date"])
	}

	if err := json.Unmarshal([]byte(`{"production_date":"yesterday"}`), &rec); err == nil {
		t.Error("Expected error for malformed date")
	}
}
