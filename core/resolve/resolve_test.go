package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	bperrors "github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/core/ingest"
	"github.com/irron2004/bible2ppt/core/passage"
	"github.com/irron2004/bible2ppt/internal/logging"
)

const sampleText = `창1:1 태초에 하나님이 천지를 창조하시니라
창1:2 땅이 혼돈하고 공허하며
창1:3 하나님이 이르시되 빛이 있으라 하시니
창2:1 천지와 만물이 다 이루어지니라
창2:2 하나님이 그가 하시던 일을
창2:3 하나님이 그 일곱째 날을 복되게 하사
창3:1 그런데 뱀은
요3:16 하나님이 세상을 이처럼 사랑하사
요3:17 하나님이 그 아들을 세상에 보내신 것은
계22:21 주 예수의 은혜가 모든 자들에게 있을지어다 아멘
`

func sampleTree(t *testing.T) *bible.Tree {
	t.Helper()
	tree, err := ingest.Parse(strings.NewReader(sampleText), canon.Default())
	if err != nil {
		t.Fatalf("ingest.Parse() error = %v", err)
	}
	return tree
}

func ip(n int) *int { return &n }

// refs renders verses as "Key c:v" for compact comparison.
func refs(vs []Verse) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = fmt.Sprintf("%s %d:%d", v.BookKey, v.Chapter, v.Verse)
	}
	return out
}

func TestResolveTree(t *testing.T) {
	tree := sampleTree(t)

	tests := []struct {
		name string
		r    passage.Range
		want []string
	}{
		{
			name: "single verse",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 1, EndChapter: ip(1), EndVerse: ip(1)},
			want: []string{"Genesis 1:1"},
		},
		{
			name: "verse range",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 2, EndChapter: ip(1), EndVerse: ip(3)},
			want: []string{"Genesis 1:2", "Genesis 1:3"},
		},
		{
			name: "open from point through book end",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 1},
			want: []string{"Genesis 1:1", "Genesis 1:2", "Genesis 1:3", "Genesis 2:1", "Genesis 2:2", "Genesis 2:3", "Genesis 3:1"},
		},
		{
			name: "whole chapters",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 1, EndChapter: ip(2)},
			want: []string{"Genesis 1:1", "Genesis 1:2", "Genesis 1:3", "Genesis 2:1", "Genesis 2:2", "Genesis 2:3"},
		},
		{
			name: "cross chapter",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 3, EndChapter: ip(2), EndVerse: ip(2)},
			want: []string{"Genesis 1:3", "Genesis 2:1", "Genesis 2:2"},
		},
		{
			name: "end chapter past last chapter",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 2, StartVerse: 3, EndChapter: ip(60), EndVerse: ip(1)},
			want: []string{"Genesis 2:3", "Genesis 3:1"},
		},
		{
			name: "start verse past chapter end",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 9, EndChapter: ip(1), EndVerse: ip(12)},
			want: nil,
		},
		{
			name: "missing chapter",
			r:    passage.Range{Book: canon.John, StartChapter: 1, StartVerse: 1, EndChapter: ip(2)},
			want: nil,
		},
		{
			name: "book absent from tree",
			r:    passage.Range{Book: canon.Exodus, StartChapter: 1, StartVerse: 1},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refs(Tree(tree, tt.r))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tree() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveFields(t *testing.T) {
	got := Tree(sampleTree(t), passage.Range{Book: canon.John, StartChapter: 3, StartVerse: 16, EndChapter: ip(3), EndVerse: ip(16)})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	want := Verse{
		BookKey:      canon.John,
		BookName:     "요한복음",
		Abbreviation: "요",
		Chapter:      3,
		Verse:        16,
		Text:         "하나님이 세상을 이처럼 사랑하사",
	}
	if got[0] != want {
		t.Errorf("Tree() = %+v, want %+v", got[0], want)
	}
}

func TestResolveDeterministic(t *testing.T) {
	tree := sampleTree(t)
	r := passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 2}

	first := Tree(tree, r)
	second := Tree(tree, r)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolving twice differed:\n%v\n%v", first, second)
	}
}

func TestResolveConcurrentReaders(t *testing.T) {
	tree := sampleTree(t)
	r := passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 1}
	want := Tree(tree, r)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Tree(tree, r); !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent resolve differed")
			}
		}()
	}
	wg.Wait()
}

func TestResolveParsedReferences(t *testing.T) {
	tree := sampleTree(t)
	ranges := passage.Parse("창1:3-2:1")
	if len(ranges) != 1 {
		t.Fatalf("Parse() returned %d ranges", len(ranges))
	}
	got := refs(Tree(tree, ranges[0]))
	want := []string{"Genesis 1:3", "Genesis 2:1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tree() = %v, want %v", got, want)
	}
}

func TestAllKeepsInputOrder(t *testing.T) {
	src := TreeSource(sampleTree(t))
	ranges := passage.Parse("계22:21; 출1:1; 창2:2-3; 요3:16")

	got, err := All(context.Background(), src, ranges, 4)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	want := []string{"Revelation 22:21", "Genesis 2:2", "Genesis 2:3", "John 3:16"}
	if !reflect.DeepEqual(refs(got), want) {
		t.Errorf("All() = %v, want %v", refs(got), want)
	}
}

func TestAllNoVersesMatched(t *testing.T) {
	src := TreeSource(sampleTree(t))

	got, err := All(context.Background(), src, passage.Parse("출1:1; 창50:1"), 2)
	if !errors.Is(err, bperrors.ErrNoVersesMatched) {
		t.Errorf("All() error = %v, want ErrNoVersesMatched", err)
	}
	if len(got) != 0 {
		t.Errorf("All() = %v, want empty", got)
	}

	if _, err := All(context.Background(), src, nil, 0); !errors.Is(err, bperrors.ErrNoVersesMatched) {
		t.Errorf("All(nil) error = %v, want ErrNoVersesMatched", err)
	}
}

type failingSource struct {
	Source
	err error
}

func (f failingSource) Verses(context.Context, canon.BookKey, int, int, int) ([]bible.Verse, error) {
	return nil, f.err
}

func TestAllPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("disk I/O error")
	src := failingSource{Source: TreeSource(sampleTree(t)), err: boom}

	_, err := All(context.Background(), src, passage.Parse("창1:1"), 1)
	if !errors.Is(err, boom) {
		t.Errorf("All() error = %v, want %v", err, boom)
	}
}

func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, TreeSource(sampleTree(t)), passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

// countingSource records which chapters Verses was asked for.
type countingSource struct {
	Source
	chapters []int
}

func (c *countingSource) Verses(ctx context.Context, key canon.BookKey, chapter, lo, hi int) ([]bible.Verse, error) {
	c.chapters = append(c.chapters, chapter)
	return c.Source.Verses(ctx, key, chapter, lo, hi)
}

func TestResolveVisitsOnlyExistingChapters(t *testing.T) {
	text := fmt.Sprintf("창1:1 a\n창1:2 b\n창%d:1 c\n창%d:2 d\n", math.MaxInt, math.MaxInt)
	tree, err := ingest.Parse(strings.NewReader(text), canon.Default())
	if err != nil {
		t.Fatalf("ingest.Parse() error = %v", err)
	}
	huge := fmt.Sprintf("Genesis %d", math.MaxInt)

	tests := []struct {
		name string
		r    passage.Range
		want []string
	}{
		{
			name: "open end",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 1},
			want: []string{"Genesis 1:1", "Genesis 1:2", huge + ":1", huge + ":2"},
		},
		{
			name: "closed end on the huge chapter",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 2, EndChapter: ip(math.MaxInt), EndVerse: ip(1)},
			want: []string{"Genesis 1:2", huge + ":1"},
		},
		{
			name: "open end verse cut on the last existing chapter",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 1, StartVerse: 1, EndVerse: ip(1)},
			want: []string{"Genesis 1:1", "Genesis 1:2", huge + ":1"},
		},
		{
			name: "between the two chapters",
			r:    passage.Range{Book: canon.Genesis, StartChapter: 2, StartVerse: 1, EndChapter: ip(1000)},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &countingSource{Source: TreeSource(tree)}
			done := make(chan []Verse, 1)
			go func() {
				got, _ := Resolve(context.Background(), src, tt.r)
				done <- got
			}()

			select {
			case got := <-done:
				if !reflect.DeepEqual(refs(got), tt.want) {
					t.Errorf("Resolve() = %v, want %v", refs(got), tt.want)
				}
				if len(src.chapters) > 2 {
					t.Errorf("Verses() called for chapters %v, want at most the two stored ones", src.chapters)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Resolve() walked chapter numbers one by one")
			}
		})
	}
}

func TestResolveMissingBookLogs(t *testing.T) {
	var logs bytes.Buffer
	logging.Init(&logs, slog.LevelDebug, logging.FormatJSON)
	defer logging.Init(os.Stderr, slog.LevelInfo, logging.FormatText)

	got, err := Resolve(context.Background(), TreeSource(sampleTree(t)), passage.Range{Book: canon.Exodus, StartChapter: 3, StartVerse: 14})
	if err != nil || got != nil {
		t.Fatalf("Resolve() = %v, %v; want nil, nil", got, err)
	}
	if !strings.Contains(logs.String(), `"msg":"range_book_missing"`) {
		t.Errorf("log = %q, want range_book_missing", logs.String())
	}
}
