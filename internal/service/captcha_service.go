package service

import (
	"context"

	"github.com/Stewz00/go-student-portal/internal/apperror"
	"github.com/Stewz00/go-student-portal/internal/captcha"
	"github.com/Stewz00/go-student-portal/internal/interfaces"
	"github.com/Stewz00/go-student-portal/internal/model"
)

type CaptchaService struct {
	sessions  interfaces.SessionStore
	generator *captcha.Generator
}

func NewCaptchaService(sessions interfaces.SessionStore, generator *captcha.Generator) *CaptchaService {
	return &CaptchaService{sessions: sessions, generator: generator}
}

// Issue generates a challenge and stores its answer in sess, replacing any earlier one.
func (s *CaptchaService) Issue(ctx context.Context, sess *model.Session) (*captcha.Challenge, error) {
	c := s.generator.New()
	sess.Captcha = c.Answer
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, apperror.NewInternalError(MsgInternal, err)
	}
	return c, nil
}
