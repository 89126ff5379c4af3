package usecase

import "time"

func (p *chainInfoUseCase) SetNow(now func() time.Time) {
	p.now = now
}
