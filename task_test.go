package corun

import "testing"

func TestTaskCommand_String(t *testing.T) {
	cases := map[TaskCommand]string{
		RUN:      "RUN",
		CONTINUE: "CONTINUE",
		EXIT:     "EXIT",
		WAIT:     "WAIT",
		TaskCommand(99): "unknown",
	}
	for cmd, want := range cases {
		if got := cmd.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", cmd, got, want)
		}
	}
}

func TestStart_DispatchesExitAndRun(t *testing.T) {
	var ranOnRun, ranOnExit bool
	onRun := func(p *TaskParam) TaskCommand {
		ranOnRun = true
		return CONTINUE
	}
	onExit := func(p *TaskParam) TaskCommand {
		ranOnExit = true
		return EXIT
	}

	if result := Start(&TaskParam{}, RUN, onRun, onExit); result != CONTINUE {
		t.Fatalf("Start(RUN) = %v, want CONTINUE", result)
	}
	if !ranOnRun || ranOnExit {
		t.Fatal("Start(RUN) must call onRun, not onExit")
	}

	ranOnRun, ranOnExit = false, false
	if result := Start(&TaskParam{}, EXIT, onRun, onExit); result != EXIT {
		t.Fatalf("Start(EXIT) = %v, want EXIT", result)
	}
	if ranOnRun || !ranOnExit {
		t.Fatal("Start(EXIT) must call onExit, not onRun")
	}

	ranOnRun, ranOnExit = false, false
	if result := Start(&TaskParam{}, CONTINUE, onRun, onExit); result != CONTINUE {
		t.Fatalf("Start(CONTINUE) = %v, want CONTINUE", result)
	}
	if !ranOnRun {
		t.Fatal("Start(CONTINUE) must call onRun")
	}
}

func TestYield_SetsResumeTag(t *testing.T) {
	task := NewTaskRecord(nil, nil)
	p := &TaskParam{Task: task}
	if result := Yield(p, 7); result != CONTINUE {
		t.Fatalf("Yield = %v, want CONTINUE", result)
	}
	if task.resume != 7 {
		t.Fatalf("resume = %d, want 7", task.resume)
	}
}

func TestWait_SetsWaitTargetAndTag(t *testing.T) {
	task := NewTaskRecord(nil, nil)
	p := &TaskParam{Task: task}
	cond := &WaitCondition{}
	if result := Wait(p, cond, 3); result != WAIT {
		t.Fatalf("Wait = %v, want WAIT", result)
	}
	if task.resume != 3 {
		t.Fatalf("resume = %d, want 3", task.resume)
	}
	if p.waitTarget != cond {
		t.Fatal("waitTarget must be the condition passed to Wait")
	}
}

func TestWaitExit_TargetsExitEvent(t *testing.T) {
	target := NewTaskRecord(nil, nil)
	task := NewTaskRecord(nil, nil)
	p := &TaskParam{Task: task}
	if result := WaitExit(p, target, 1); result != WAIT {
		t.Fatalf("WaitExit = %v, want WAIT", result)
	}
	if p.waitTarget != target.ExitEvent() {
		t.Fatal("waitTarget must be target's own ExitEvent")
	}
}

func TestExit_StoresCode(t *testing.T) {
	task := NewTaskRecord(nil, nil)
	p := &TaskParam{Task: task}
	if result := Exit(p, 42); result != EXIT {
		t.Fatalf("Exit = %v, want EXIT", result)
	}
	if task.code != 42 {
		t.Fatalf("task.code = %d, want 42", task.code)
	}
	if p.Code() != 42 {
		t.Fatalf("p.Code() = %d, want 42", p.Code())
	}
}

func TestTaskParam_ReasonAndCode(t *testing.T) {
	p := &TaskParam{reason: ErrAbort, code: 5}
	if p.Reason() != ErrAbort {
		t.Fatalf("Reason() = %v, want ErrAbort", p.Reason())
	}
	if p.Code() != 5 {
		t.Fatalf("Code() = %d, want 5", p.Code())
	}
}

func TestNewTaskRecord_StateRoundtrip(t *testing.T) {
	task := NewTaskRecord(nil, "hello")
	if task.State() != "hello" {
		t.Fatalf("State() = %v, want hello", task.State())
	}
	task.SetState(42)
	if task.State() != 42 {
		t.Fatalf("State() after SetState = %v, want 42", task.State())
	}
	if task.ExitEvent() != &task.exit {
		t.Fatal("ExitEvent() must return a pointer to the record's own exit event")
	}
}
