package game

import "fmt"

// Command - действие игрока, полученное от клавиатуры или из сценария
type Command uint8

const (
	// Мир блоков
	CmdForward Command = iota
	CmdBack
	CmdLeft
	CmdRight
	CmdTurnLeft
	CmdTurnRight
	CmdUp
	CmdDown
	CmdBuild
	CmdDestroy
	CmdToggleNoClip
	CmdToggleCamera
	CmdSaveMap
	CmdLoadMap

	// Платформер
	CmdHeroLeft
	CmdHeroRight
	CmdHeroUp
	CmdHeroDown
	CmdHeroStop
	CmdHeroJump
	CmdHeroFire
)

var commandNames = [...]string{
	CmdForward:      "forward",
	CmdBack:         "back",
	CmdLeft:         "left",
	CmdRight:        "right",
	CmdTurnLeft:     "turn_left",
	CmdTurnRight:    "turn_right",
	CmdUp:           "up",
	CmdDown:         "down",
	CmdBuild:        "build",
	CmdDestroy:      "destroy",
	CmdToggleNoClip: "noclip",
	CmdToggleCamera: "camera",
	CmdSaveMap:      "save",
	CmdLoadMap:      "load",
	CmdHeroLeft:     "hero_left",
	CmdHeroRight:    "hero_right",
	CmdHeroUp:       "hero_up",
	CmdHeroDown:     "hero_down",
	CmdHeroStop:     "hero_stop",
	CmdHeroJump:     "hero_jump",
	CmdHeroFire:     "hero_fire",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("Command(%d)", c)
}

// ParseCommand разбирает имя команды из сценария
func ParseCommand(name string) (Command, error) {
	for i, n := range commandNames {
		if n == name {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("неизвестная команда %q", name)
}

// isWorldCommand возвращает true для команд мира блоков
func (c Command) isWorldCommand() bool { return c <= CmdLoadMap }
