package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// Reputation credited to a content owner per live vote on their content.
// Removing a vote applies the negation, so the pair always nets to zero.
const (
	UpvoteReputation   = 10
	DownvoteReputation = -2
)

const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

const (
	StateNone = "none"
	StateUp   = "up"
	StateDown = "down"
)

type VoteService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewVoteService(db *gorm.DB, log logrus.FieldLogger) *VoteService {
	return &VoteService{db: db, log: log}
}

// voteTarget is the resolved question or answer a vote applies to
type voteTarget struct {
	kind    string
	id      string
	ownerID string
	column  string
	model   interface{}
}

// Vote casts, switches or toggles off the caller's vote on a question or answer.
// Casting the same direction twice removes the vote.
func (s *VoteService) Vote(ctx context.Context, in models.VoteCreate, voterID string) (*models.VoteResponse, error) {
	if in.VoteType != models.Upvote && in.VoteType != models.Downvote {
		return nil, invalid("vote_type must be 1 or -1")
	}

	var resp models.VoteResponse
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		target, err := resolveTarget(tx, in)
		if err != nil {
			return err
		}
		if target.ownerID == voterID {
			return invalid("You cannot vote on your own %s", target.kind)
		}

		// Check if user already voted
		var existing models.Vote
		err = tx.Where("user_id = ? AND "+target.column+" = ?", voterID, target.id).First(&existing).Error
		hasVote := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr("get vote", err)
		}

		var repDelta int
		switch {
		case hasVote && existing.VoteType == in.VoteType:
			// Same vote - remove it (toggle)
			if err := tx.Delete(&existing).Error; err != nil {
				return storeErr("remove vote", err)
			}
			repDelta = -reputationFor(existing.VoteType)
			resp.Message = "Vote removed"
			resp.VoteState = StateNone
		case hasVote:
			// Different vote - update it
			repDelta = reputationFor(in.VoteType) - reputationFor(existing.VoteType)
			if err := tx.Model(&existing).Update("vote_type", in.VoteType).Error; err != nil {
				return storeErr("update vote", err)
			}
			resp.Message = "Vote updated"
			resp.VoteState = stateFor(in.VoteType)
		default:
			vote := models.Vote{UserID: voterID, VoteType: in.VoteType}
			if target.kind == TargetQuestion {
				vote.QuestionID = &target.id
			} else {
				vote.AnswerID = &target.id
			}
			if err := tx.Create(&vote).Error; err != nil {
				return storeErr("create vote", err)
			}
			repDelta = reputationFor(in.VoteType)
			resp.Message = "Vote recorded"
			resp.VoteState = stateFor(in.VoteType)
		}

		score, err := recomputeScore(tx, target)
		if err != nil {
			return err
		}
		resp.Score = score

		if err := AdjustReputation(tx, target.ownerID, repDelta); err != nil {
			return err
		}

		s.log.WithFields(logrus.Fields{
			"voter_id":    voterID,
			"target_type": target.kind,
			"target_id":   target.id,
			"state":       resp.VoteState,
			"score":       score,
		}).Debug("Vote applied")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Summary tallies the live votes on a question or answer
func (s *VoteService) Summary(ctx context.Context, targetType, id string) (*models.VoteSummary, error) {
	db := s.db.WithContext(ctx)

	var column string
	var model interface{}
	switch targetType {
	case TargetQuestion:
		column, model = "question_id", &models.Question{}
	case TargetAnswer:
		column, model = "answer_id", &models.Answer{}
	default:
		return nil, invalid("unknown vote target %q", targetType)
	}

	var exists int64
	if err := db.Model(model).Where("id = ?", id).Count(&exists).Error; err != nil {
		return nil, storeErr("check vote target", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	summary := models.VoteSummary{TargetID: id, TargetType: targetType}
	up, down, err := tally(db, column, id)
	if err != nil {
		return nil, err
	}
	summary.Upvotes, summary.Downvotes = up, down
	summary.Score = up - down
	return &summary, nil
}

func resolveTarget(tx *gorm.DB, in models.VoteCreate) (*voteTarget, error) {
	hasQuestion := in.QuestionID != nil && *in.QuestionID != ""
	hasAnswer := in.AnswerID != nil && *in.AnswerID != ""
	if hasQuestion == hasAnswer {
		return nil, invalid("Exactly one of question_id or answer_id is required")
	}

	if hasQuestion {
		var question models.Question
		if err := tx.First(&question, "id = ?", *in.QuestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalid("Question not found")
			}
			return nil, storeErr("get question", err)
		}
		return &voteTarget{
			kind:    TargetQuestion,
			id:      question.ID,
			ownerID: question.UserID,
			column:  "question_id",
			model:   &models.Question{},
		}, nil
	}

	var answer models.Answer
	if err := tx.First(&answer, "id = ?", *in.AnswerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("Answer not found")
		}
		return nil, storeErr("get answer", err)
	}
	return &voteTarget{
		kind:    TargetAnswer,
		id:      answer.ID,
		ownerID: answer.UserID,
		column:  "answer_id",
		model:   &models.Answer{},
	}, nil
}

// votedTargets lists the distinct questions and answers the votes point at
func votedTargets(votes []models.Vote) []*voteTarget {
	seen := make(map[string]bool, len(votes))
	var targets []*voteTarget
	for _, v := range votes {
		var t *voteTarget
		switch {
		case v.QuestionID != nil:
			t = &voteTarget{kind: TargetQuestion, id: *v.QuestionID, column: "question_id", model: &models.Question{}}
		case v.AnswerID != nil:
			t = &voteTarget{kind: TargetAnswer, id: *v.AnswerID, column: "answer_id", model: &models.Answer{}}
		default:
			continue
		}
		if key := t.kind + ":" + t.id; !seen[key] {
			seen[key] = true
			targets = append(targets, t)
		}
	}
	return targets
}

// recomputeScore stores upvotes minus downvotes on the target row
func recomputeScore(tx *gorm.DB, target *voteTarget) (int, error) {
	up, down, err := tally(tx, target.column, target.id)
	if err != nil {
		return 0, err
	}
	score := int(up - down)

	if err := tx.Model(target.model).Where("id = ?", target.id).UpdateColumn("vote_score", score).Error; err != nil {
		return 0, storeErr("store score", err)
	}
	return score, nil
}

func tally(tx *gorm.DB, column, id string) (up, down int64, err error) {
	if err = tx.Model(&models.Vote{}).Where(column+" = ? AND vote_type = ?", id, models.Upvote).Count(&up).Error; err != nil {
		return 0, 0, storeErr("count upvotes", err)
	}
	if err = tx.Model(&models.Vote{}).Where(column+" = ? AND vote_type = ?", id, models.Downvote).Count(&down).Error; err != nil {
		return 0, 0, storeErr("count downvotes", err)
	}
	return up, down, nil
}

func reputationFor(voteType int) int {
	if voteType == models.Upvote {
		return UpvoteReputation
	}
	return DownvoteReputation
}

func stateFor(voteType int) string {
	if voteType == models.Upvote {
		return StateUp
	}
	return StateDown
}
