package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/lshigami/quizzer/internal/apperr"
	"github.com/lshigami/quizzer/internal/model"
)

func TestCreateQuiz(t *testing.T) {
	s := newServices(t)
	quiz, err := s.quizzes.CreateQuiz(context.Background(), "  Geo  ", "Capitals")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if quiz.ID == 0 || quiz.Title != "Geo" || quiz.Description != "Capitals" || quiz.CreatedAt.IsZero() {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
}

func TestCreateQuiz_Validation(t *testing.T) {
	s := newServices(t)
	cases := map[string][2]string{
		"empty title":      {"  ", ""},
		"long title":       {strings.Repeat("t", 201), ""},
		"long description": {"ok", strings.Repeat("d", 501)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.quizzes.CreateQuiz(context.Background(), in[0], in[1])
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListAndGetQuizzes(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	empty, err := s.quizzes.ListQuizzes(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v, %v", empty, err)
	}

	geo := s.mustQuiz(t, "Geo")
	s.mustQuestion(t, geo.ID, singleChoice("a?", 0, "yes", "no"))
	s.mustQuestion(t, geo.ID, NewQuestion{Text: "essay", Type: model.Text})
	math := s.mustQuiz(t, "Math")

	list, err := s.quizzes.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != math.ID || list[1].QuestionCount != 2 {
		t.Fatalf("unexpected list %+v", list)
	}
	again, err := s.quizzes.ListQuizzes(ctx)
	if err != nil || !reflect.DeepEqual(list, again) {
		t.Fatalf("expected identical list on second read")
	}

	got, err := s.quizzes.GetQuiz(ctx, geo.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Geo" || got.QuestionCount != 2 {
		t.Fatalf("unexpected quiz %+v", got)
	}

	if _, err := s.quizzes.GetQuiz(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteQuiz_Cascades(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	quiz := s.mustQuiz(t, "Geo")
	q := s.mustQuestion(t, quiz.ID, singleChoice("a?", 0, "yes", "no"))
	evaluate(t, s, quiz.ID, Answer{QuestionID: q.ID, OptionIDs: []uint{q.Options[0].ID}})

	if err := s.quizzes.DeleteQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, m := range []any{&model.Quiz{}, &model.Question{}, &model.Option{}, &model.Submission{}} {
		if n := s.count(t, m); n != 0 {
			t.Fatalf("expected %T rows to be gone, got %d", m, n)
		}
	}
	if len(s.cache.invalidated) == 0 || s.cache.invalidated[len(s.cache.invalidated)-1] != quiz.ID {
		t.Fatalf("expected the quiz's cache entry to be invalidated")
	}
	if err := s.quizzes.DeleteQuiz(ctx, quiz.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListSubmissions_MissingQuiz(t *testing.T) {
	s := newServices(t)
	if _, err := s.quizzes.ListSubmissions(context.Background(), 3); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
