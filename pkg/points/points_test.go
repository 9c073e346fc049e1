package points

import (
	"fmt"
	"reflect"
	"testing"
)

func TestScoreOrder(t *testing.T) {
	type args struct {
		order []string
	}
	tests := []struct {
		name    string
		args    args
		want    map[string]int
		wantErr bool
	}{
		{
			name: "top three",
			args: args{order: []string{"d1", "d2", "d3"}},
			want: map[string]int{"d1": 25, "d2": 18, "d3": 15},
		},
		{
			name: "full field",
			args: args{order: []string{
				"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8", "d9", "d10",
			}},
			want: map[string]int{
				"d1": 25, "d2": 18, "d3": 15, "d4": 12, "d5": 10,
				"d6": 8, "d7": 6, "d8": 4, "d9": 2, "d10": 1,
			},
		},
		{
			name: "gap keeps slot value",
			args: args{order: []string{"d1", "d2", "", "d4"}},
			want: map[string]int{"d1": 25, "d2": 18, "d4": 12},
		},
		{
			name: "empty order",
			args: args{order: []string{}},
			want: map[string]int{},
		},
		{
			name: "beyond rank 10 earns nothing",
			args: args{order: []string{
				"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8", "d9", "d10", "d11",
			}},
			want: map[string]int{
				"d1": 25, "d2": 18, "d3": 15, "d4": 12, "d5": 10,
				"d6": 8, "d7": 6, "d8": 4, "d9": 2, "d10": 1,
			},
		},
		{
			name:    "duplicate driver",
			args:    args{order: []string{"d1", "d2", "d1"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreOrder(tt.args.order)
			if (err != nil) != tt.wantErr {
				t.Errorf("ScoreOrder() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScoreOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreOrderUniqueRanks(t *testing.T) {
	// every slot index must pay exactly the table value
	for i := 0; i < MaxScoredRanks; i++ {
		order := make([]string, MaxScoredRanks)
		id := fmt.Sprintf("only-%d", i)
		order[i] = id
		got, err := ScoreOrder(order)
		if err != nil {
			t.Fatalf("ScoreOrder() error = %v", err)
		}
		if len(got) != 1 || got[id] != Table[i] {
			t.Errorf("slot %d: got %v, want {%s:%d}", i, got, id, Table[i])
		}
	}
}
