package platformer

import (
	"github.com/annel0/blockplay/internal/physics"
)

// Update выполняет один кадр: платформы, затем персонажи в порядке добавления,
// затем столкновения снарядов и проверка итога. После завершения уровня ничего не меняет.
func (l *Level) Update() Outcome {
	if l.outcome != Running {
		return l.outcome
	}
	l.frame++

	for _, b := range l.barriers {
		b.update()
	}
	l.space.sync(l.barriers)

	for _, a := range l.actors {
		if !a.alive {
			continue
		}
		switch a.Movement {
		case MoveCharacter:
			l.updateCharacter(a)
		case MoveBouncer:
			l.updateBouncer(a)
		case MovePatrol:
			l.updatePatrol(a)
		case MoveBullet:
			l.updateBullet(a)
		case MoveWalker:
			l.updateWalker(a)
		}
	}

	l.resolveShots()
	l.outcome = l.checkOutcome()
	l.removeDead()

	if l.outcome != Running {
		l.logger.Info("Уровень %s завершён на кадре %d: %s", l.Name, l.frame, l.outcome)
		l.emit(Event{Kind: EventOutcome, Outcome: l.outcome})
	}
	return l.outcome
}

// updateCharacter - перемещение персонажа с гравитацией и платформами
func (l *Level) updateCharacter(a *Actor) {
	oldX, oldY := a.Rect.X, a.Rect.Y

	// 1. Платформы, которых касаемся, и опора сдвигают персонажа на своё смещение за кадр
	touched := l.touching(a.Rect)
	for _, p := range touched {
		a.Rect = a.Rect.Move(p.XChanged, p.YChanged)
	}
	support, ok := l.Barrier(a.StandsOn)
	if !ok {
		a.StandsOn = NoBarrier
	} else if !containsBarrier(touched, support) {
		a.Rect = a.Rect.Move(support.XChanged, support.YChanged)
	}

	// 2. Если после сдвига персонаж всё ещё в платформе, его раздавило
	if len(l.touching(a.Rect)) > 0 {
		l.kill(a, DeathCrushed)
		return
	}

	// 3. Гравитация
	a.VY += a.Heavy

	// 4. Движение по X, упираемся в стены
	beforeX := a.Rect.X
	a.Rect.X += a.VX
	touched = l.touching(a.Rect)
	if a.VX > 0 {
		for _, p := range touched {
			a.Rect.SetRight(min(a.Rect.Right(), p.Rect.Left()))
		}
	} else if a.VX < 0 {
		for _, p := range touched {
			a.Rect.X = max(a.Rect.Left(), p.Rect.Right())
		}
	}

	// 5. Выход за ареал по X
	if a.outside() {
		if a.DieX {
			l.kill(a, DeathLeftArea)
			return
		}
		a.Rect.X = beforeX
		a.changeDir()
	}

	// 6. Движение по Y; сходим с опоры при прыжке или если ушли за её края
	beforeY := a.Rect.Y
	a.Rect.Y += a.VY
	if support, ok := l.Barrier(a.StandsOn); ok {
		if a.VY < 0 || a.Rect.Right() < support.Rect.Left() || a.Rect.Left() > support.Rect.Right() {
			a.StandsOn = NoBarrier
		}
	} else {
		a.StandsOn = NoBarrier
	}

	// 7. Приземление или удар головой
	touched = l.touching(a.Rect)
	if a.VY > 0 {
		if len(touched) > 0 && a.Heavy > 0 {
			a.VY = 0
		}
		if p := landingBarrier(a.Rect, touched); p != nil {
			a.Rect.SetBottom(p.Rect.Top())
			a.StandsOn = p.ID
		}
	} else if a.VY < 0 {
		a.StandsOn = NoBarrier
		for _, p := range touched {
			if a.Heavy > 0 {
				a.VY = 0
			}
			a.Rect.Y = max(a.Rect.Top(), p.Rect.Bottom())
		}
	}

	// 8. Выход за ареал по Y: гибель только при падении вниз
	if a.outside() {
		if a.DieY && a.Rect.Bottom() > a.Area.Bottom() {
			l.kill(a, DeathFell)
			return
		}
		a.Rect.Y = beforeY
		a.VY = -a.VY
	}

	// 9. Смещение за кадр и картинка по направлению
	a.XChanged = a.Rect.X - oldX
	a.YChanged = a.Rect.Y - oldY
	a.updateCostume(l.MirrorOffset)
}

// landingBarrier выбирает опору среди платформ, верх которых выше низа персонажа:
// самую высокую, при равенстве - с наибольшим перекрытием по X, затем с меньшим ID
func landingBarrier(r physics.Rect, touched []*Barrier) *Barrier {
	var best *Barrier
	bestOverlap := 0
	for _, p := range touched {
		if p.Rect.Top() >= r.Bottom() {
			continue
		}
		overlap := r.HorizontalOverlap(p.Rect)
		switch {
		case best == nil,
			p.Rect.Top() < best.Rect.Top(),
			p.Rect.Top() == best.Rect.Top() && overlap > bestOverlap,
			p.Rect.Top() == best.Rect.Top() && overlap == bestOverlap && p.ID < best.ID:
			best = p
			bestOverlap = overlap
		}
	}
	return best
}

func containsBarrier(list []*Barrier, b *Barrier) bool {
	for _, p := range list {
		if p == b {
			return true
		}
	}
	return false
}

// updateBouncer - постоянная скорость, отражение от краёв ареала по каждой оси
func (l *Level) updateBouncer(a *Actor) {
	a.Rect.X += a.VX
	a.XChanged = a.VX
	if a.outside() {
		a.Rect.X -= a.VX
		a.XChanged = 0
		a.changeDir()
	}

	a.Rect.Y += a.VY
	a.YChanged = a.VY
	if a.outside() {
		a.Rect.Y -= a.VY
		a.YChanged = 0
		a.VY = -a.VY
	}
	a.updateCostume(l.MirrorOffset)
}

// updatePatrol - движение между Patrol.Min и Patrol.Max по одной оси
func (l *Level) updatePatrol(a *Actor) {
	pos, speed := &a.Rect.Y, &a.VY
	if a.Patrol.Axis == AxisX {
		pos, speed = &a.Rect.X, &a.VX
	}

	if *pos <= a.Patrol.Min {
		*speed = abs(*speed)
	}
	if *pos >= a.Patrol.Max {
		*speed = -abs(*speed)
	}
	*pos += *speed

	if a.Patrol.Axis == AxisX {
		a.XChanged, a.YChanged = *speed, 0
		if *speed != 0 {
			a.Direction = sign(*speed)
		}
	} else {
		a.XChanged, a.YChanged = 0, *speed
	}
	a.updateCostume(l.MirrorOffset)
}

// updateBullet - снаряд гибнет, когда его центр покидает экран или он касается стены
func (l *Level) updateBullet(a *Actor) {
	a.Rect = a.Rect.Move(a.VX, a.VY)
	a.XChanged, a.YChanged = a.VX, a.VY

	if !l.Visible.ContainsPoint(a.Rect.CenterX(), a.Rect.CenterY()) {
		l.kill(a, DeathLeftView)
		return
	}
	if len(l.touching(a.Rect)) > 0 {
		l.kill(a, DeathHitBarrier)
	}
}

// updateWalker - вид сверху: движение только внутри ареала,
// при касании стены отступаем на шаг и гасим скорость по этой оси
func (l *Level) updateWalker(a *Actor) {
	oldX, oldY := a.Rect.X, a.Rect.Y

	if (a.VX > 0 && a.Rect.X <= a.Area.Right()-a.Rect.W) || (a.VX < 0 && a.Rect.X >= a.Area.Left()) {
		a.Rect.X += a.VX
	}
	if (a.VY > 0 && a.Rect.Y <= a.Area.Bottom()-a.Rect.H) || (a.VY < 0 && a.Rect.Y >= a.Area.Top()) {
		a.Rect.Y += a.VY
	}

	if len(l.touching(a.Rect)) > 0 {
		step := a.Step
		if step <= 0 {
			step = max(abs(a.VX), abs(a.VY))
		}
		if a.VX != 0 {
			a.Rect.X -= sign(a.VX) * step
			a.VX = 0
		}
		if a.VY != 0 {
			a.Rect.Y -= sign(a.VY) * step
			a.VY = 0
		}
	}

	a.XChanged = a.Rect.X - oldX
	a.YChanged = a.Rect.Y - oldY
	a.updateCostume(l.MirrorOffset)
}

// resolveShots: снаряд и враждебный персонаж при касании гибнут оба
func (l *Level) resolveShots() {
	for _, bullet := range l.actors {
		if !bullet.alive || bullet.Movement != MoveBullet {
			continue
		}
		for _, target := range l.actors {
			if !target.alive || !target.Hostile || target == bullet {
				continue
			}
			if bullet.Rect.Overlaps(target.Rect) {
				l.kill(bullet, DeathShot)
				l.kill(target, DeathShot)
				break
			}
		}
	}
}

// checkOutcome: победа при касании цели, поражение при гибели героя или касании врага
func (l *Level) checkOutcome() Outcome {
	hero := l.hero
	if hero == nil {
		return Running
	}
	if !hero.alive {
		return Lost
	}
	if hero.Rect.Overlaps(l.Goal) {
		return Won
	}
	for _, a := range l.actors {
		if a.alive && a.Hostile && a != hero && hero.Rect.Overlaps(a.Rect) {
			return Lost
		}
	}
	return Running
}

func (l *Level) removeDead() {
	live := l.actors[:0]
	for _, a := range l.actors {
		if a.alive {
			live = append(live, a)
		}
	}
	for i := len(live); i < len(l.actors); i++ {
		l.actors[i] = nil
	}
	l.actors = live
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
